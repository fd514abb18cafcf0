package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sealshop/backend/internal/domain/billing"
	"github.com/sealshop/backend/internal/domain/shared"
)

// GormWorkOrderRepository implements billing.WorkOrderRepository using GORM
type GormWorkOrderRepository struct {
	db *gorm.DB
}

// NewGormWorkOrderRepository creates a new GormWorkOrderRepository
func NewGormWorkOrderRepository(db *gorm.DB) *GormWorkOrderRepository {
	return &GormWorkOrderRepository{db: db}
}

// Save creates or updates a work order
func (r *GormWorkOrderRepository) Save(ctx context.Context, wo *billing.WorkOrder) error {
	return r.db.WithContext(ctx).Save(wo).Error
}

// FindByID finds a work order by its ID
func (r *GormWorkOrderRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*billing.WorkOrder, error) {
	var wo billing.WorkOrder
	if err := r.db.WithContext(ctx).
		First(&wo, "tenant_id = ? AND id = ?", tenantID, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &wo, nil
}

// FindDaily finds the shared daily order for one work date
func (r *GormWorkOrderRepository) FindDaily(ctx context.Context, tenantID uuid.UUID, workDate string) (*billing.WorkOrder, error) {
	var wo billing.WorkOrder
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_daily = ? AND work_date = ?", tenantID, true, workDate).
		First(&wo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &wo, nil
}

// List returns work orders newest day first
func (r *GormWorkOrderRepository) List(ctx context.Context, filter shared.Filter) ([]*billing.WorkOrder, error) {
	var orders []*billing.WorkOrder
	query := r.db.WithContext(ctx).
		Model(&billing.WorkOrder{}).
		Where("tenant_id = ?", filter.TenantID)

	if filter.OrderBy != "" {
		query = applyOrder(query, filter)
	} else {
		query = query.Order("work_date DESC")
	}
	query = applyPagination(query, filter)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Delete removes a work order
func (r *GormWorkOrderRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&billing.WorkOrder{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormWorkOrderRepository implements WorkOrderRepository
var _ billing.WorkOrderRepository = (*GormWorkOrderRepository)(nil)
