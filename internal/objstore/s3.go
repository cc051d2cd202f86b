package objstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/Hoddity/virt/internal/config"
)

// ErrNotConfigured is returned when object storage credentials or the
// bucket were never configured.
var ErrNotConfigured = errors.New("object storage not configured")

// Uploader stores files in S3-compatible object storage under
// generated keys and returns their public URLs.
type Uploader interface {
	// Upload stores data under a fresh uploads/ key and returns the
	// public URL of the object.
	Upload(ctx context.Context, data []byte, filename, contentType string) (string, error)

	// Enabled reports whether uploads can be served
	Enabled() bool
}

// S3Uploader implements Uploader against an S3-compatible endpoint
// (Yandex Object Storage).
type S3Uploader struct {
	api      *s3.Client
	endpoint string
	bucket   string
	logger   *slog.Logger
}

// NewS3Uploader creates an uploader bound to one bucket
func NewS3Uploader(ctx context.Context, cfg config.ObjectStorageConfig, logger *slog.Logger) (*S3Uploader, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Bucket == "" || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, ErrNotConfigured
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load object storage config: %w", err)
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &S3Uploader{
		api:      api,
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		bucket:   cfg.Bucket,
		logger:   logger.With("component", "object_storage", "bucket", cfg.Bucket),
	}, nil
}

// Upload stores data under uploads/{uuid}{ext}. The extension is taken
// from the original filename so the public URL stays recognizable.
func (u *S3Uploader) Upload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	key := "uploads/" + uuid.New().String() + strings.ToLower(path.Ext(filename))

	_, err := u.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		u.logger.Error("Failed to upload object", "key", key, "error", err)
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s", u.endpoint, u.bucket, key)
	u.logger.Info("Uploaded object", "key", key, "size", len(data))
	return url, nil
}

func (u *S3Uploader) Enabled() bool { return true }

// DisabledUploader rejects uploads when object storage was never
// configured.
type DisabledUploader struct{}

func (DisabledUploader) Upload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	return "", ErrNotConfigured
}

func (DisabledUploader) Enabled() bool { return false }
