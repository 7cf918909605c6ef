package service_test

import (
	"context"
	"database/sql"
	"time"
	"vendor-upload-portal/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

type MockUploadRequestRepository struct{ mock.Mock }

func (m *MockUploadRequestRepository) Create(ctx context.Context, exec sqlx.ExtContext, request *model.UploadRequest) error {
	return m.Called(ctx, exec, request).Error(0)
}

func (m *MockUploadRequestRepository) GetByID(ctx context.Context, exec sqlx.ExtContext, requestID string) (*model.UploadRequest, error) {
	return m.request(m.Called(ctx, exec, requestID))
}

func (m *MockUploadRequestRepository) GetByIDForUpdate(ctx context.Context, exec sqlx.ExtContext, requestID string) (*model.UploadRequest, error) {
	return m.request(m.Called(ctx, exec, requestID))
}

func (m *MockUploadRequestRepository) GetByIDForShare(ctx context.Context, exec sqlx.ExtContext, requestID string) (*model.UploadRequest, error) {
	return m.request(m.Called(ctx, exec, requestID))
}

func (m *MockUploadRequestRepository) GetByOrg(ctx context.Context, exec sqlx.ExtContext, orgID, requestID string) (*model.UploadRequest, error) {
	return m.request(m.Called(ctx, exec, orgID, requestID))
}

func (m *MockUploadRequestRepository) request(args mock.Arguments) (*model.UploadRequest, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UploadRequest), args.Error(1)
}

func (m *MockUploadRequestRepository) ListSummaries(ctx context.Context, exec sqlx.ExtContext, orgID, workOrderID string) ([]model.UploadRequestSummary, error) {
	args := m.Called(ctx, exec, orgID, workOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UploadRequestSummary), args.Error(1)
}

func (m *MockUploadRequestRepository) Revoke(ctx context.Context, exec sqlx.ExtContext, orgID, requestID, actorID string, at time.Time) (bool, error) {
	args := m.Called(ctx, exec, orgID, requestID, actorID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockUploadRequestRepository) Complete(ctx context.Context, exec sqlx.ExtContext, requestID string, at time.Time) (bool, error) {
	args := m.Called(ctx, exec, requestID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockUploadRequestRepository) BeginTX(ctx context.Context, opts *sql.TxOptions) (sqlx.ExtContext, func() error, func() error, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, nil, nil, args.Error(3)
	}
	return args.Get(0).(sqlx.ExtContext), args.Get(1).(func() error), args.Get(2).(func() error), args.Error(3)
}

type MockUploadFileRepository struct{ mock.Mock }

func (m *MockUploadFileRepository) Create(ctx context.Context, exec sqlx.ExtContext, file *model.UploadFile) error {
	return m.Called(ctx, exec, file).Error(0)
}

func (m *MockUploadFileRepository) GetByID(ctx context.Context, exec sqlx.ExtContext, fileID string) (*model.UploadFile, error) {
	args := m.Called(ctx, exec, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UploadFile), args.Error(1)
}

func (m *MockUploadFileRepository) ListByRequest(ctx context.Context, exec sqlx.ExtContext, requestID string) ([]model.UploadFile, error) {
	args := m.Called(ctx, exec, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UploadFile), args.Error(1)
}

func (m *MockUploadFileRepository) Usage(ctx context.Context, exec sqlx.ExtContext, requestID string) (model.QuotaUsage, error) {
	args := m.Called(ctx, exec, requestID)
	return args.Get(0).(model.QuotaUsage), args.Error(1)
}

func (m *MockUploadFileRepository) CountFinalized(ctx context.Context, exec sqlx.ExtContext, requestID string) (int, error) {
	args := m.Called(ctx, exec, requestID)
	return args.Int(0), args.Error(1)
}

func (m *MockUploadFileRepository) MarkFinalized(ctx context.Context, exec sqlx.ExtContext, fileID, requestID string, sha256 *string, observedSize *int64, at time.Time) error {
	return m.Called(ctx, exec, fileID, requestID, sha256, observedSize, at).Error(0)
}

func (m *MockUploadFileRepository) MarkError(ctx context.Context, exec sqlx.ExtContext, fileID, requestID string) error {
	return m.Called(ctx, exec, fileID, requestID).Error(0)
}

type MockDocumentRepository struct{ mock.Mock }

func (m *MockDocumentRepository) Create(ctx context.Context, exec sqlx.ExtContext, doc *model.Document) error {
	return m.Called(ctx, exec, doc).Error(0)
}

type MockWorkOrderRepository struct{ mock.Mock }

func (m *MockWorkOrderRepository) WorkOrderExists(ctx context.Context, exec sqlx.ExtContext, orgID, workOrderID string) (bool, error) {
	args := m.Called(ctx, exec, orgID, workOrderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWorkOrderRepository) VendorExists(ctx context.Context, exec sqlx.ExtContext, orgID, vendorID string) (bool, error) {
	args := m.Called(ctx, exec, orgID, vendorID)
	return args.Bool(0), args.Error(1)
}

type MockAccessLogRepository struct{ mock.Mock }

func (m *MockAccessLogRepository) Record(ctx context.Context, entry *model.AccessLogEntry) error {
	return m.Called(ctx, entry).Error(0)
}

type MockS3Storage struct{ mock.Mock }

func (m *MockS3Storage) GeneratePresignedPutURL(ctx context.Context, key, contentType string, contentLength int64, expire time.Duration) (string, error) {
	args := m.Called(ctx, key, contentType, contentLength, expire)
	return args.String(0), args.Error(1)
}

func (m *MockS3Storage) StatObject(ctx context.Context, key string) (*model.ObjectInfo, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ObjectInfo), args.Error(1)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) NotifyUploadRequested(ctx context.Context, notification *model.UploadRequestNotification) error {
	return m.Called(ctx, notification).Error(0)
}

type fakeTx struct{}

func (f *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}
func (f *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}
func (f *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return &sql.Row{}
}
func (f *fakeTx) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	return nil, nil
}
func (f *fakeTx) QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	return &sqlx.Row{}
}
func (f *fakeTx) BindNamed(query string, arg interface{}) (string, []interface{}, error) {
	return "", nil, nil
}
func (f *fakeTx) DriverName() string         { return "fake" }
func (f *fakeTx) Rebind(query string) string { return query }

// txRecorder : считает commit и rollback, которые сервис вызвал у транзакции
type txRecorder struct {
	commits   int
	rollbacks int
}

func (r *txRecorder) commit() error {
	r.commits++
	return nil
}

func (r *txRecorder) rollback() error {
	r.rollbacks++
	return nil
}

func expectTx(repo *MockUploadRequestRepository) *txRecorder {
	recorder := &txRecorder{}
	repo.On("BeginTX", mock.Anything, mock.Anything).Return(&fakeTx{}, recorder.rollback, recorder.commit, nil)
	return recorder
}
