package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/poopooshop/shop-backend/internal/admin"
	"github.com/poopooshop/shop-backend/internal/advertisement"
	"github.com/poopooshop/shop-backend/internal/config"
	"github.com/poopooshop/shop-backend/internal/mailer"
	"github.com/poopooshop/shop-backend/internal/order"
	"github.com/poopooshop/shop-backend/internal/product"
	"github.com/poopooshop/shop-backend/internal/upload"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	app := fiber.New()
	setupCORS(app, cfg.AllowedOrigins)
	app.Use(requestLog)

	db := mustConnectDB(cfg)

	productRepo := product.NewMongoRepository(db)
	orderRepo := order.NewMongoRepository(db)
	adRepo := advertisement.NewMongoRepository(db)
	adminRepo := admin.NewMongoRepository(db)

	for _, ensure := range []func() error{
		productRepo.EnsureIndexes,
		orderRepo.EnsureIndexes,
		adRepo.EnsureIndexes,
	} {
		if err := ensure(); err != nil {
			log.Fatalf("ensure indexes: %v", err)
		}
	}

	adminService := admin.NewService(adminRepo)
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := adminService.Seed(cfg.AdminEmail, cfg.AdminPassword, "admin"); err != nil {
			log.Fatalf("seed admin account: %v", err)
		}
	}

	mail := mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})

	store, err := upload.NewGateway(context.Background(), upload.Config{
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccess,
	})
	if err != nil {
		log.Fatalf("object storage: %v", err)
	}

	productService := product.NewService(productRepo)
	productHandler := product.NewHandler(productService)
	orderHandler := order.NewHandler(order.NewService(orderRepo, productService, mail))
	adHandler := advertisement.NewHandler(advertisement.NewService(adRepo))
	adminHandler := admin.NewHandler(adminService, cfg.JWTSecret)
	uploadHandler := upload.NewHandler(store)

	productHandler.RegisterPublicRoutes(app)
	orderHandler.RegisterPublicRoutes(app)
	adHandler.RegisterPublicRoutes(app)
	adminHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	productHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)
	adHandler.RegisterProtectedRoutes(app)
	uploadHandler.RegisterProtectedRoutes(app)

	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("listen: %v", err)
	}
}

func setupCORS(app *fiber.App, origins string) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func requestLog(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	fmt.Printf("URL = %s, Method = %s, Duration = %v\n", c.OriginalURL(), c.Method(), time.Since(start))
	return err
}

func mustConnectDB(cfg config.Config) *mongo.Database {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("connect mongodb: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("ping mongodb: %v", err)
	}

	return client.Database(cfg.MongoDB)
}
