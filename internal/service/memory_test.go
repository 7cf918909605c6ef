package service_test

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"
	"vendor-upload-portal/internal/model"

	"github.com/jmoiron/sqlx"
)

// memoryStore : состояние портала в памяти, общее для всех репозиториев сценария
type memoryStore struct {
	requests  map[string]model.UploadRequest
	files     map[string]model.UploadFile
	fileOrder []string
	documents []model.Document
	accessLog []model.AccessLogEntry
	objects   map[string]int64
	notified  []model.UploadRequestNotification
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		requests: make(map[string]model.UploadRequest),
		files:    make(map[string]model.UploadFile),
		objects:  make(map[string]int64),
	}
}

func (s *memoryStore) filesOf(requestID string) []model.UploadFile {
	var files []model.UploadFile
	for _, id := range s.fileOrder {
		if file := s.files[id]; file.UploadRequestID == requestID {
			files = append(files, file)
		}
	}
	return files
}

type memoryRequests struct{ store *memoryStore }

func (r *memoryRequests) Create(ctx context.Context, exec sqlx.ExtContext, request *model.UploadRequest) error {
	if _, ok := r.store.requests[request.ID]; ok {
		return fmt.Errorf("запрос %s уже существует", request.ID)
	}
	r.store.requests[request.ID] = *request
	return nil
}

func (r *memoryRequests) GetByID(ctx context.Context, exec sqlx.ExtContext, requestID string) (*model.UploadRequest, error) {
	request, ok := r.store.requests[requestID]
	if !ok {
		return nil, model.ErrRecordNotFound
	}
	return &request, nil
}

func (r *memoryRequests) GetByIDForUpdate(ctx context.Context, exec sqlx.ExtContext, requestID string) (*model.UploadRequest, error) {
	return r.GetByID(ctx, exec, requestID)
}

func (r *memoryRequests) GetByIDForShare(ctx context.Context, exec sqlx.ExtContext, requestID string) (*model.UploadRequest, error) {
	return r.GetByID(ctx, exec, requestID)
}

func (r *memoryRequests) GetByOrg(ctx context.Context, exec sqlx.ExtContext, orgID, requestID string) (*model.UploadRequest, error) {
	request, ok := r.store.requests[requestID]
	if !ok || request.OrgID != orgID {
		return nil, model.ErrRecordNotFound
	}
	return &request, nil
}

func (r *memoryRequests) ListSummaries(ctx context.Context, exec sqlx.ExtContext, orgID, workOrderID string) ([]model.UploadRequestSummary, error) {
	summaries := make([]model.UploadRequestSummary, 0)
	for _, request := range r.store.requests {
		if request.OrgID != orgID || request.WorkOrderID != workOrderID {
			continue
		}
		summary := model.UploadRequestSummary{
			ID:           request.ID,
			VendorID:     request.VendorID,
			RequestEmail: request.RequestEmail,
			Status:       request.Status,
			ExpiresAt:    request.ExpiresAt,
			CreatedBy:    request.CreatedBy,
			CreatedAt:    request.CreatedAt,
		}
		for _, file := range r.store.filesOf(request.ID) {
			summary.FileCount++
			if file.Status == model.FileStatusFinalized {
				summary.FinalizedCount++
			}
			if file.Status.CountsTowardBytes() {
				summary.ReservedBytes += file.DeclaredSizeBytes
			}
		}
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].CreatedAt.After(summaries[j].CreatedAt) })
	return summaries, nil
}

// Revoke : как UPDATE ... WHERE status = 'active'
func (r *memoryRequests) Revoke(ctx context.Context, exec sqlx.ExtContext, orgID, requestID, actorID string, at time.Time) (bool, error) {
	request, ok := r.store.requests[requestID]
	if !ok || request.OrgID != orgID || request.Status != model.RequestStatusActive {
		return false, nil
	}
	request.Status = model.RequestStatusRevoked
	request.RevokedAt = &at
	request.RevokedBy = &actorID
	r.store.requests[requestID] = request
	return true, nil
}

// Complete : как UPDATE ... WHERE status = 'active' AND expires_at >= at
func (r *memoryRequests) Complete(ctx context.Context, exec sqlx.ExtContext, requestID string, at time.Time) (bool, error) {
	request, ok := r.store.requests[requestID]
	if !ok || request.Status != model.RequestStatusActive || at.After(request.ExpiresAt) {
		return false, nil
	}
	request.Status = model.RequestStatusCompleted
	request.CompletedAt = &at
	r.store.requests[requestID] = request
	return true, nil
}

func (r *memoryRequests) BeginTX(ctx context.Context, opts *sql.TxOptions) (sqlx.ExtContext, func() error, func() error, error) {
	noop := func() error { return nil }
	return &fakeTx{}, noop, noop, nil
}

type memoryFiles struct{ store *memoryStore }

func (r *memoryFiles) Create(ctx context.Context, exec sqlx.ExtContext, file *model.UploadFile) error {
	r.store.files[file.ID] = *file
	r.store.fileOrder = append(r.store.fileOrder, file.ID)
	return nil
}

func (r *memoryFiles) GetByID(ctx context.Context, exec sqlx.ExtContext, fileID string) (*model.UploadFile, error) {
	file, ok := r.store.files[fileID]
	if !ok {
		return nil, model.ErrRecordNotFound
	}
	return &file, nil
}

func (r *memoryFiles) ListByRequest(ctx context.Context, exec sqlx.ExtContext, requestID string) ([]model.UploadFile, error) {
	return r.store.filesOf(requestID), nil
}

func (r *memoryFiles) Usage(ctx context.Context, exec sqlx.ExtContext, requestID string) (model.QuotaUsage, error) {
	var usage model.QuotaUsage
	for _, file := range r.store.filesOf(requestID) {
		usage.FileCount++
		if file.Status.CountsTowardBytes() {
			usage.ReservedBytes += file.DeclaredSizeBytes
		}
	}
	return usage, nil
}

func (r *memoryFiles) CountFinalized(ctx context.Context, exec sqlx.ExtContext, requestID string) (int, error) {
	count := 0
	for _, file := range r.store.filesOf(requestID) {
		if file.Status == model.FileStatusFinalized {
			count++
		}
	}
	return count, nil
}

func (r *memoryFiles) MarkFinalized(ctx context.Context, exec sqlx.ExtContext, fileID, requestID string, sha256 *string, observedSize *int64, at time.Time) error {
	file, ok := r.store.files[fileID]
	if !ok || file.UploadRequestID != requestID || file.Status != model.FileStatusPending {
		return model.ErrStateConflict
	}
	file.Status = model.FileStatusFinalized
	file.Sha256 = sha256
	file.ObservedSizeBytes = observedSize
	file.UploadedAt = &at
	r.store.files[fileID] = file
	return nil
}

func (r *memoryFiles) MarkError(ctx context.Context, exec sqlx.ExtContext, fileID, requestID string) error {
	file, ok := r.store.files[fileID]
	if !ok || file.UploadRequestID != requestID || file.Status != model.FileStatusPending {
		return model.ErrStateConflict
	}
	file.Status = model.FileStatusError
	r.store.files[fileID] = file
	return nil
}

type memoryDocuments struct{ store *memoryStore }

func (r *memoryDocuments) Create(ctx context.Context, exec sqlx.ExtContext, document *model.Document) error {
	for _, existing := range r.store.documents {
		if existing.UploadFileID == document.UploadFileID {
			return fmt.Errorf("документ для файла %s уже существует", document.UploadFileID)
		}
	}
	r.store.documents = append(r.store.documents, *document)
	return nil
}

// memoryWorkOrders : один заказ-наряд и один поставщик в организации testOrgID
type memoryWorkOrders struct{}

func (r *memoryWorkOrders) WorkOrderExists(ctx context.Context, exec sqlx.ExtContext, orgID, workOrderID string) (bool, error) {
	return orgID == testOrgID && workOrderID == testWorkOrderID, nil
}

func (r *memoryWorkOrders) VendorExists(ctx context.Context, exec sqlx.ExtContext, orgID, vendorID string) (bool, error) {
	return orgID == testOrgID && vendorID == testVendorID, nil
}

type memoryAccessLog struct{ store *memoryStore }

func (r *memoryAccessLog) Record(ctx context.Context, entry *model.AccessLogEntry) error {
	r.store.accessLog = append(r.store.accessLog, *entry)
	return nil
}

// memoryStorage : подписанная ссылка это просто ключ, загрузка кладёт размер объекта в objects
type memoryStorage struct{ store *memoryStore }

func (r *memoryStorage) GeneratePresignedPutURL(ctx context.Context, key, contentType string, contentLength int64, expire time.Duration) (string, error) {
	return "https://storage.example/" + key, nil
}

func (r *memoryStorage) StatObject(ctx context.Context, key string) (*model.ObjectInfo, error) {
	size, ok := r.store.objects[key]
	if !ok {
		return nil, model.ErrObjectNotFound
	}
	return &model.ObjectInfo{SizeBytes: size}, nil
}

type memoryNotifier struct{ store *memoryStore }

func (r *memoryNotifier) NotifyUploadRequested(ctx context.Context, notification *model.UploadRequestNotification) error {
	r.store.notified = append(r.store.notified, *notification)
	return nil
}
