package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sealshop/backend/internal/domain/inventory"
	"github.com/sealshop/backend/internal/domain/shared"
)

// materialPriority orders stock listings the way the shop reads them:
// BUR first, then NBR, BT, BOOM, VT.
const materialPriority = `CASE material_type
	WHEN 'BUR' THEN 0
	WHEN 'NBR' THEN 1
	WHEN 'BT' THEN 2
	WHEN 'BOOM' THEN 3
	WHEN 'VT' THEN 4
	ELSE 5 END`

// GormBatchRepository implements inventory.BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// Save creates or updates a batch
func (r *GormBatchRepository) Save(ctx context.Context, batch *inventory.RawMaterialBatch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

// FindByID finds a batch by its ID
func (r *GormBatchRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*inventory.RawMaterialBatch, error) {
	var batch inventory.RawMaterialBatch
	if err := r.db.WithContext(ctx).
		First(&batch, "tenant_id = ? AND id = ?", tenantID, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByUnitCode finds a batch by its unit code
func (r *GormBatchRepository) FindByUnitCode(ctx context.Context, tenantID uuid.UUID, unitCode string) (*inventory.RawMaterialBatch, error) {
	var batch inventory.RawMaterialBatch
	if err := r.db.WithContext(ctx).
		First(&batch, "tenant_id = ? AND unit_code = ?", tenantID, unitCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindBySelection matches a shelf pick by unit code and both diameters
func (r *GormBatchRepository) FindBySelection(ctx context.Context, tenantID uuid.UUID, unitCode string, inner, outer decimal.Decimal) (*inventory.RawMaterialBatch, error) {
	var batch inventory.RawMaterialBatch
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND unit_code = ?", tenantID, unitCode).
		Where("inner_diameter = ? AND outer_diameter = ?", inner, outer).
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindFirstByTypeAndDiameters finds the first batch of a material type with
// the given diameters, preferring the one with the most height left
func (r *GormBatchRepository) FindFirstByTypeAndDiameters(ctx context.Context, tenantID uuid.UUID, materialType inventory.MaterialType, inner, outer decimal.Decimal) (*inventory.RawMaterialBatch, error) {
	var batch inventory.RawMaterialBatch
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND material_type = ?", tenantID, materialType).
		Where("inner_diameter = ? AND outer_diameter = ?", inner, outer).
		Order("height DESC").
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// List returns batches ordered by material priority then diameters
func (r *GormBatchRepository) List(ctx context.Context, filter shared.Filter) ([]*inventory.RawMaterialBatch, error) {
	var batches []*inventory.RawMaterialBatch
	query := r.db.WithContext(ctx).
		Model(&inventory.RawMaterialBatch{}).
		Where("tenant_id = ?", filter.TenantID)

	if filter.OrderBy != "" {
		query = applyOrder(query, filter)
	} else {
		query = query.Order(materialPriority).
			Order("inner_diameter ASC, outer_diameter ASC, unit_code ASC")
	}
	query = applyPagination(query, filter)

	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// ListUsable returns batches with workable height remaining
func (r *GormBatchRepository) ListUsable(ctx context.Context, tenantID uuid.UUID) ([]*inventory.RawMaterialBatch, error) {
	var batches []*inventory.RawMaterialBatch
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND height > ?", tenantID, inventory.MinUsableHeight).
		Order(materialPriority).
		Order("inner_diameter ASC, outer_diameter ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// Delete removes a batch
func (r *GormBatchRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&inventory.RawMaterialBatch{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeductHeight decrements remaining height only when enough is left. The
// guard in the WHERE clause means a concurrent consumer cannot drive the
// batch negative; the loser of the race gets ErrInsufficientStock.
func (r *GormBatchRepository) DeductHeight(ctx context.Context, tenantID, id uuid.UUID, mm decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&inventory.RawMaterialBatch{}).
		Where("tenant_id = ? AND id = ? AND height >= ?", tenantID, id, mm).
		UpdateColumn("height", gorm.Expr("height - ?", mm))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&inventory.RawMaterialBatch{}).
			Where("tenant_id = ? AND id = ?", tenantID, id).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		return shared.ErrInsufficientStock
	}
	return nil
}

// RestoreHeight adds previously consumed height back
func (r *GormBatchRepository) RestoreHeight(ctx context.Context, tenantID, id uuid.UUID, mm decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&inventory.RawMaterialBatch{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		UpdateColumn("height", gorm.Expr("height + ?", mm))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListUnitCodes returns the unit codes already taken for a geometry. It
// backs the unit code generator.
func (r *GormBatchRepository) ListUnitCodes(ctx context.Context, tenantID uuid.UUID, materialType inventory.MaterialType, inner, outer decimal.Decimal) ([]string, error) {
	var codes []string
	if err := r.db.WithContext(ctx).
		Model(&inventory.RawMaterialBatch{}).
		Where("tenant_id = ? AND material_type = ?", tenantID, materialType).
		Where("inner_diameter = ? AND outer_diameter = ?", inner, outer).
		Pluck("unit_code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// Ensure GormBatchRepository implements the repository and code source
var (
	_ inventory.BatchRepository = (*GormBatchRepository)(nil)
	_ inventory.UnitCodeSource  = (*GormBatchRepository)(nil)
)
