package ports

import (
	"context"
	"github.com/jmoiron/sqlx"
	"time"
	"vendor-upload-portal/internal/model"
)

// UploadFileRepository : SQL слой файлов запроса
type UploadFileRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, file *model.UploadFile) error
	GetByID(ctx context.Context, exec sqlx.ExtContext, fileID string) (*model.UploadFile, error)
	ListByRequest(ctx context.Context, exec sqlx.ExtContext, requestID string) ([]model.UploadFile, error)
	Usage(ctx context.Context, exec sqlx.ExtContext, requestID string) (model.QuotaUsage, error)
	CountFinalized(ctx context.Context, exec sqlx.ExtContext, requestID string) (int, error)
	MarkFinalized(ctx context.Context, exec sqlx.ExtContext, fileID, requestID string, sha256 *string, observedSize *int64, at time.Time) error
	MarkError(ctx context.Context, exec sqlx.ExtContext, fileID, requestID string) error
}

// DocumentRepository : запись Document в наборе документов заказ-наряда
type DocumentRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, document *model.Document) error
}
