package ports

import (
	"context"
	"database/sql"
	"github.com/jmoiron/sqlx"
	"time"
	"vendor-upload-portal/internal/model"
)

// UploadRequestRepository : SQL слой запросов на загрузку
type UploadRequestRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, request *model.UploadRequest) error
	GetByID(ctx context.Context, exec sqlx.ExtContext, requestID string) (*model.UploadRequest, error)
	GetByIDForUpdate(ctx context.Context, exec sqlx.ExtContext, requestID string) (*model.UploadRequest, error)
	GetByIDForShare(ctx context.Context, exec sqlx.ExtContext, requestID string) (*model.UploadRequest, error)
	GetByOrg(ctx context.Context, exec sqlx.ExtContext, orgID, requestID string) (*model.UploadRequest, error)
	ListSummaries(ctx context.Context, exec sqlx.ExtContext, orgID, workOrderID string) ([]model.UploadRequestSummary, error)
	Revoke(ctx context.Context, exec sqlx.ExtContext, orgID, requestID, actorID string, at time.Time) (bool, error)
	Complete(ctx context.Context, exec sqlx.ExtContext, requestID string, at time.Time) (bool, error)
	BeginTX(ctx context.Context, opts *sql.TxOptions) (sqlx.ExtContext, func() error, func() error, error)
}

// WorkOrderRepository : данные основной платформы, портал их только читает
type WorkOrderRepository interface {
	WorkOrderExists(ctx context.Context, exec sqlx.ExtContext, orgID, workOrderID string) (bool, error)
	VendorExists(ctx context.Context, exec sqlx.ExtContext, orgID, vendorID string) (bool, error)
}

// AccessLogRepository : аудит обращений поставщиков, пишется вне транзакции операции
type AccessLogRepository interface {
	Record(ctx context.Context, entry *model.AccessLogEntry) error
}
