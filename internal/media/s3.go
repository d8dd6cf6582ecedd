package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/jafarshop/pimsync/internal/config"
)

// S3Storer persists images into an S3 bucket using the same hashed key
// layout as the disk backend.
type S3Storer struct {
	client *s3.Client
	bucket string
	logger *zap.Logger
}

// NewS3Storer creates an S3-backed media storer
func NewS3Storer(ctx context.Context, cfg config.MediaConfig, logger *zap.Logger) (*S3Storer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Storer{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.S3Bucket,
		logger: logger,
	}, nil
}

func (s *S3Storer) Store(ctx context.Context, localPath string, ownerID int64, attributeCode string) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to read image %s: %w", localPath, err)
	}

	key := objectKey(ownerID, attributeCode, data, filepath.Base(localPath))

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		s.logger.Error("Failed to upload image to S3", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return key, nil
}
