package repository

import (
	"context"
	"vendor-upload-portal/config"
	"vendor-upload-portal/internal/util"

	"github.com/jmoiron/sqlx"
)

// WorkOrderRepository : таблицы work_orders и vendors ведёт основная платформа
type WorkOrderRepository struct {
	*config.Database
}

func NewWorkOrderRepository(database *config.Database) *WorkOrderRepository {
	return &WorkOrderRepository{database}
}

// WorkOrderExists : проверяет, что заказ-наряд есть в организации
func (r *WorkOrderRepository) WorkOrderExists(ctx context.Context, exec sqlx.ExtContext, orgID, workOrderID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM work_orders WHERE id = $1 AND org_id = $2)`
	err := sqlx.GetContext(ctx, exec, &exists, query, workOrderID, orgID)
	if err != nil {
		return false, util.LogError("[WorkOrderRepo] ошибка проверки заказ-наряда", err)
	}
	return exists, nil
}

// VendorExists : проверяет, что поставщик есть в организации
func (r *WorkOrderRepository) VendorExists(ctx context.Context, exec sqlx.ExtContext, orgID, vendorID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM vendors WHERE id = $1 AND org_id = $2)`
	err := sqlx.GetContext(ctx, exec, &exists, query, vendorID, orgID)
	if err != nil {
		return false, util.LogError("[WorkOrderRepo] ошибка проверки поставщика", err)
	}
	return exists, nil
}
