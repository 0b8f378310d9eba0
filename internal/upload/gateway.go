// Package upload stores product and advertisement images in object storage.
package upload

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const presignTTL = 15 * time.Minute

// ObjectStore is the storage surface the handlers depend on.
type ObjectStore interface {
	PresignPut(ctx context.Context, filename, contentType string) (url string, err error)
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (publicURL string, err error)
}

type Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// Gateway talks to S3. Object keys are uuid-prefixed under images/ so
// repeated uploads of the same filename never collide.
type Gateway struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	region  string
}

func NewGateway(ctx context.Context, cfg Config) (*Gateway, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}

	client := s3.NewFromConfig(awsCfg)
	return &Gateway{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		region:  cfg.Region,
	}, nil
}

func (g *Gateway) PresignPut(ctx context.Context, filename, contentType string) (string, error) {
	key := objectKey(filename)
	req, err := g.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(g.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return "", errors.Wrap(err, "presign put object")
	}
	return req.URL, nil
}

func (g *Gateway) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	key := objectKey(filename)
	_, err := g.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(g.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        body,
	})
	if err != nil {
		return "", errors.Wrap(err, "put object")
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", g.bucket, g.region, key), nil
}

func objectKey(filename string) string {
	return "images/" + uuid.NewString() + filepath.Ext(filename)
}
