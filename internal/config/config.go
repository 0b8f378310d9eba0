package config

import (
	"os"
	"strconv"
)

type Config struct {
	Addr           string
	AllowedOrigins string

	MongoURI string
	MongoDB  string

	JWTSecret string

	AdminEmail    string
	AdminPassword string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	S3Bucket        string
	S3Region        string
	AWSAccessKeyID  string
	AWSSecretAccess string
}

func Load() Config {
	return Config{
		Addr:           getenv("SHOP_ADDR", ":4000"),
		AllowedOrigins: getenv("SHOP_ALLOWED_ORIGINS", "*"),

		MongoURI: getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getenv("MONGO_DB", "shop"),

		JWTSecret: getenv("JWT_SECRET", "secret_ecom"),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		SMTPHost:     getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getenvInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getenv("SMTP_FROM", os.Getenv("SMTP_USERNAME")),

		S3Bucket:        os.Getenv("S3_BUCKET"),
		S3Region:        getenv("S3_REGION", "ap-southeast-1"),
		AWSAccessKeyID:  os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccess: os.Getenv("AWS_SECRET_ACCESS_KEY"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
