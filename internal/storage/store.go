package storage

import (
	"context"
	"fmt"

	"yatube/internal/config"
)

// Store saves an image under key and returns the URL it is served from.
// Delete removes a saved key; a missing key is not an error.
type Store interface {
	Save(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

// New selects S3-compatible storage when S3_ENDPOINT is set, else the local media dir.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	if cfg.S3Endpoint == "" {
		return NewLocalStore(cfg.MediaDir, cfg.MediaURLPrefix)
	}

	s3, err := NewS3Store(S3Config{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		UseSSL:    cfg.S3UseSSL,
		Bucket:    cfg.S3Bucket,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 storage: %w", err)
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket %s: %w", cfg.S3Bucket, err)
	}
	return s3, nil
}
