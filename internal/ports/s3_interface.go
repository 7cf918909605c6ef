package ports

import (
	"context"
	"time"
	"vendor-upload-portal/internal/model"
)

// S3Storage : для S3
type S3Storage interface {
	GeneratePresignedPutURL(ctx context.Context, key, contentType string, contentLength int64, expire time.Duration) (string, error)
	StatObject(ctx context.Context, key string) (*model.ObjectInfo, error)
}
