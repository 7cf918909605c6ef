package repository

import (
	"context"
	"vendor-upload-portal/config"
	"vendor-upload-portal/internal/model"
	"vendor-upload-portal/internal/util"

	"github.com/jmoiron/sqlx"
)

type DocumentRepository struct {
	*config.Database
}

func NewDocumentRepository(database *config.Database) *DocumentRepository {
	return &DocumentRepository{database}
}

// Create : добавляем документ в набор заказ-наряда.
// Вызывается в той же транзакции, что и перевод файла в finalized
func (r *DocumentRepository) Create(ctx context.Context, exec sqlx.ExtContext, document *model.Document) error {
	query := `
		INSERT INTO documents (uuid, org_id, work_order_id, vendor_id, upload_file_id, filename_original,
		                       size_bytes, mime_type, sha256, storage_path, doc_type, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := exec.ExecContext(
		ctx,
		query,
		document.UUID,
		document.OrgID,
		document.WorkOrderID,
		document.VendorID,
		document.UploadFileID,
		document.FilenameOriginal,
		document.SizeBytes,
		document.MimeType,
		document.Sha256,
		document.StoragePath,
		document.DocType,
		document.Source,
		document.CreatedAt,
	)
	if err != nil {
		return util.LogError("[DocumentRepo] не удалось сохранить документ", err)
	}

	return nil
}
