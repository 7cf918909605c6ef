package repository

import (
	"context"
	"vendor-upload-portal/config"
	"vendor-upload-portal/internal/model"
	"vendor-upload-portal/internal/util"
)

type AccessLogRepository struct {
	*config.Database
}

func NewAccessLogRepository(database *config.Database) *AccessLogRepository {
	return &AccessLogRepository{database}
}

// Record : пишет строку аудита напрямую в БД, без транзакции операции.
// Запись должна сохраниться, даже если сама операция откатилась
func (r *AccessLogRepository) Record(ctx context.Context, entry *model.AccessLogEntry) error {
	query := `
		INSERT INTO upload_access_log (upload_request_id, action, outcome, reason, source_ip, user_agent, created_at)
		VALUES (:upload_request_id, :action, :outcome, :reason, :source_ip, :user_agent, :created_at)
	`
	if _, err := r.DB.NamedExecContext(ctx, query, entry); err != nil {
		return util.LogError("[AccessLogRepo] не удалось записать обращение", err)
	}
	return nil
}
