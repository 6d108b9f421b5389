package storage

import (
	"context"
	"fmt"
	"io"

	appconfig "github.com/ciftci/ciftci-backend/config"
)

// FileStorage stores uploaded media under a slash separated key such as
// "images/products/<uuid>.jpg" and serves it from a public URL.
type FileStorage interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Presigner is implemented by backends that accept direct client uploads
type Presigner interface {
	PresignUpload(ctx context.Context, key, contentType string) (*PresignedURLResponse, error)
}

type PresignedURLResponse struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
	Key       string `json:"key"`
}

// New builds the backend selected by STORAGE_DRIVER
func New(cfg *appconfig.Config) (FileStorage, error) {
	switch cfg.Storage.Driver {
	case "", "local":
		return NewLocalStorage(cfg.Storage.LocalRoot, cfg.Storage.PublicPrefix), nil
	case "s3":
		return NewS3Storage(cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, cfg.S3.BaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
