package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"vendor-upload-portal/config"
	"vendor-upload-portal/internal/model"
	"vendor-upload-portal/internal/util"

	"github.com/jmoiron/sqlx"
)

const uploadRequestColumns = `
	id, org_id, work_order_id, vendor_id, token_hash, expires_at, status, allowed_doc_types,
	max_files, max_total_bytes, request_email, message, created_by, created_at,
	revoked_at, revoked_by, completed_at
`

type UploadRequestRepository struct {
	*config.Database
}

func NewUploadRequestRepository(database *config.Database) *UploadRequestRepository {
	return &UploadRequestRepository{database}
}

// Create : сохраняем новый запрос на загрузку в статусе active
func (r *UploadRequestRepository) Create(ctx context.Context, exec sqlx.ExtContext, request *model.UploadRequest) error {
	query := `
		INSERT INTO upload_requests (id, org_id, work_order_id, vendor_id, token_hash, expires_at, status,
		                             allowed_doc_types, max_files, max_total_bytes, request_email, message,
		                             created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := exec.ExecContext(
		ctx,
		query,
		request.ID,
		request.OrgID,
		request.WorkOrderID,
		request.VendorID,
		request.TokenHash,
		request.ExpiresAt,
		request.Status,
		request.AllowedDocTypes,
		request.MaxFiles,
		request.MaxTotalBytes,
		request.RequestEmail,
		request.Message,
		request.CreatedBy,
		request.CreatedAt,
	)
	if err != nil {
		return util.LogError("[UploadRequestRepo] не удалось сохранить запрос", err)
	}

	return nil
}

func (r *UploadRequestRepository) GetByID(ctx context.Context, exec sqlx.ExtContext, requestID string) (*model.UploadRequest, error) {
	return r.get(ctx, exec, `SELECT`+uploadRequestColumns+`FROM upload_requests WHERE id = $1`, requestID)
}

// GetByIDForUpdate : блокирует строку запроса до конца транзакции.
// Через эту блокировку сериализуются все резервирования квоты одного запроса
func (r *UploadRequestRepository) GetByIDForUpdate(ctx context.Context, exec sqlx.ExtContext, requestID string) (*model.UploadRequest, error) {
	return r.get(ctx, exec, `SELECT`+uploadRequestColumns+`FROM upload_requests WHERE id = $1 FOR UPDATE`, requestID)
}

// GetByIDForShare : не даёт отозвать или завершить запрос, пока идёт finalize
func (r *UploadRequestRepository) GetByIDForShare(ctx context.Context, exec sqlx.ExtContext, requestID string) (*model.UploadRequest, error) {
	return r.get(ctx, exec, `SELECT`+uploadRequestColumns+`FROM upload_requests WHERE id = $1 FOR SHARE`, requestID)
}

// GetByOrg : запрос в пределах организации, чужие запросы не видны
func (r *UploadRequestRepository) GetByOrg(ctx context.Context, exec sqlx.ExtContext, orgID, requestID string) (*model.UploadRequest, error) {
	return r.get(ctx, exec, `SELECT`+uploadRequestColumns+`FROM upload_requests WHERE id = $1 AND org_id = $2`, requestID, orgID)
}

func (r *UploadRequestRepository) get(ctx context.Context, exec sqlx.ExtContext, query string, args ...any) (*model.UploadRequest, error) {
	var request model.UploadRequest
	err := sqlx.GetContext(ctx, exec, &request, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrRecordNotFound
		}
		return nil, util.LogError("[UploadRequestRepo] ошибка при выполнении запроса", err)
	}

	return &request, nil
}

// ListSummaries : запросы заказ-наряда со счётчиками файлов, новые сверху
func (r *UploadRequestRepository) ListSummaries(ctx context.Context, exec sqlx.ExtContext, orgID, workOrderID string) ([]model.UploadRequestSummary, error) {
	query := `
		SELECT ur.id, ur.vendor_id, ur.request_email, ur.status, ur.expires_at, ur.created_by, ur.created_at,
		       COUNT(uf.id) AS file_count,
		       COUNT(uf.id) FILTER (WHERE uf.status = 'finalized') AS finalized_count,
		       COALESCE(SUM(uf.declared_size_bytes) FILTER (WHERE uf.status <> 'error'), 0) AS reserved_bytes
		FROM upload_requests AS ur
		LEFT JOIN upload_files AS uf ON uf.upload_request_id = ur.id
		WHERE ur.org_id = $1 AND ur.work_order_id = $2
		GROUP BY ur.id
		ORDER BY ur.created_at DESC
	`

	summaries := []model.UploadRequestSummary{}
	rows, err := exec.QueryxContext(ctx, query, orgID, workOrderID)
	if err != nil {
		return nil, util.LogError("[UploadRequestRepo] ошибка получения списка запросов", err)
	}
	defer rows.Close()

	for rows.Next() {
		var summary model.UploadRequestSummary
		if err := rows.StructScan(&summary); err != nil {
			return nil, util.LogError("[UploadRequestRepo] ошибка чтения строки", err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, util.LogError("[UploadRequestRepo] ошибка чтения списка", err)
	}

	return summaries, nil
}

// Revoke : active -> revoked. Возвращает false, если запрос уже не active
func (r *UploadRequestRepository) Revoke(ctx context.Context, exec sqlx.ExtContext, orgID, requestID, actorID string, at time.Time) (bool, error) {
	query := `
		UPDATE upload_requests
		SET status = 'revoked', revoked_at = $3, revoked_by = $4
		WHERE id = $1 AND org_id = $2 AND status = 'active'
	`
	return r.transition(ctx, exec, query, requestID, orgID, at, actorID)
}

// Complete : active -> completed, только пока не истёк срок
func (r *UploadRequestRepository) Complete(ctx context.Context, exec sqlx.ExtContext, requestID string, at time.Time) (bool, error) {
	query := `
		UPDATE upload_requests
		SET status = 'completed', completed_at = $2
		WHERE id = $1 AND status = 'active' AND expires_at > $2
	`
	return r.transition(ctx, exec, query, requestID, at)
}

func (r *UploadRequestRepository) transition(ctx context.Context, exec sqlx.ExtContext, query string, args ...any) (bool, error) {
	result, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return false, util.LogError("[UploadRequestRepo] не удалось обновить статус запроса", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, util.LogError("[UploadRequestRepo] не удалось проверить, обновлён ли запрос", err)
	}

	return rowsAffected == 1, nil
}

// BeginTX : возвращает транзакцию, rollback и commit.
// rollback после commit безопасен и возвращает sql.ErrTxDone
func (r *UploadRequestRepository) BeginTX(ctx context.Context, opts *sql.TxOptions) (sqlx.ExtContext, func() error, func() error, error) {
	tx, err := r.DB.BeginTxx(ctx, opts)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("[UploadRequestRepo] не удалось начать транзакцию: %w", err)
	}
	return tx, tx.Rollback, tx.Commit, nil
}
