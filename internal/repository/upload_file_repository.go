package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
	"vendor-upload-portal/config"
	"vendor-upload-portal/internal/model"
	"vendor-upload-portal/internal/util"

	"github.com/jmoiron/sqlx"
)

type UploadFileRepository struct {
	*config.Database
}

func NewUploadFileRepository(database *config.Database) *UploadFileRepository {
	return &UploadFileRepository{database}
}

// Create : резервирует место под файл, строка появляется сразу в статусе pending
func (r *UploadFileRepository) Create(ctx context.Context, exec sqlx.ExtContext, file *model.UploadFile) error {
	query := `
		INSERT INTO upload_files (id, upload_request_id, file_name, mime_type, declared_size_bytes,
		                          doc_type, storage_path, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := exec.ExecContext(
		ctx,
		query,
		file.ID,
		file.UploadRequestID,
		file.FileName,
		file.MimeType,
		file.DeclaredSizeBytes,
		file.DocType,
		file.StoragePath,
		file.Status,
		file.CreatedAt,
	)
	if err != nil {
		return util.LogError("[UploadFileRepo] не удалось сохранить файл", err)
	}

	return nil
}

func (r *UploadFileRepository) GetByID(ctx context.Context, exec sqlx.ExtContext, fileID string) (*model.UploadFile, error) {
	query := `
		SELECT id, upload_request_id, file_name, mime_type, declared_size_bytes, doc_type, storage_path,
		       status, sha256, observed_size_bytes, created_at, uploaded_at
		FROM upload_files
		WHERE id = $1
	`

	var file model.UploadFile
	err := sqlx.GetContext(ctx, exec, &file, query, fileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrRecordNotFound
		}
		return nil, util.LogError("[UploadFileRepo] ошибка при выполнении запроса", err)
	}

	return &file, nil
}

// ListByRequest : все файлы запроса в порядке создания, включая error
func (r *UploadFileRepository) ListByRequest(ctx context.Context, exec sqlx.ExtContext, requestID string) ([]model.UploadFile, error) {
	query := `
		SELECT id, upload_request_id, file_name, mime_type, declared_size_bytes, doc_type, storage_path,
		       status, sha256, observed_size_bytes, created_at, uploaded_at
		FROM upload_files
		WHERE upload_request_id = $1
		ORDER BY created_at ASC
	`

	files := []model.UploadFile{}
	if err := sqlx.SelectContext(ctx, exec, &files, query, requestID); err != nil {
		return nil, util.LogError("[UploadFileRepo] ошибка получения файлов запроса", err)
	}

	return files, nil
}

// Usage : число всех файлов и объём без файлов в статусе error
func (r *UploadFileRepository) Usage(ctx context.Context, exec sqlx.ExtContext, requestID string) (model.QuotaUsage, error) {
	query := `
		SELECT COUNT(*) AS file_count,
		       COALESCE(SUM(declared_size_bytes) FILTER (WHERE status <> 'error'), 0) AS reserved_bytes
		FROM upload_files
		WHERE upload_request_id = $1
	`

	var usage model.QuotaUsage
	if err := sqlx.GetContext(ctx, exec, &usage, query, requestID); err != nil {
		return model.QuotaUsage{}, util.LogError("[UploadFileRepo] ошибка подсчёта квоты", err)
	}

	return usage, nil
}

func (r *UploadFileRepository) CountFinalized(ctx context.Context, exec sqlx.ExtContext, requestID string) (int, error) {
	query := `SELECT COUNT(*) FROM upload_files WHERE upload_request_id = $1 AND status = 'finalized'`

	var count int
	if err := sqlx.GetContext(ctx, exec, &count, query, requestID); err != nil {
		return 0, util.LogError("[UploadFileRepo] ошибка подсчёта загруженных файлов", err)
	}

	return count, nil
}

// MarkFinalized : pending -> finalized. Если строка уже не pending, возвращает model.ErrStateConflict
func (r *UploadFileRepository) MarkFinalized(ctx context.Context, exec sqlx.ExtContext, fileID, requestID string, sha256 *string, observedSize *int64, at time.Time) error {
	query := `
		UPDATE upload_files
		SET status = 'finalized', sha256 = $3, observed_size_bytes = $4, uploaded_at = $5
		WHERE id = $1 AND upload_request_id = $2 AND status = 'pending'
	`
	return r.transition(ctx, exec, query, fileID, requestID, sha256, observedSize, at)
}

// MarkError : pending -> error, объём файла перестаёт учитываться в квоте
func (r *UploadFileRepository) MarkError(ctx context.Context, exec sqlx.ExtContext, fileID, requestID string) error {
	query := `
		UPDATE upload_files
		SET status = 'error'
		WHERE id = $1 AND upload_request_id = $2 AND status = 'pending'
	`
	return r.transition(ctx, exec, query, fileID, requestID)
}

func (r *UploadFileRepository) transition(ctx context.Context, exec sqlx.ExtContext, query string, args ...any) error {
	result, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return util.LogError("[UploadFileRepo] не удалось обновить статус файла", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[UploadFileRepo] не удалось проверить, обновлён ли файл", err)
	}
	if rowsAffected == 0 {
		return model.ErrStateConflict
	}

	return nil
}
