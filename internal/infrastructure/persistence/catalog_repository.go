package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sealshop/backend/internal/domain/catalog"
	"github.com/sealshop/backend/internal/domain/inventory"
	"github.com/sealshop/backend/internal/domain/shared"
)

// GormFinishedProductRepository implements catalog.FinishedProductRepository using GORM
type GormFinishedProductRepository struct {
	db *gorm.DB
}

// NewGormFinishedProductRepository creates a new GormFinishedProductRepository
func NewGormFinishedProductRepository(db *gorm.DB) *GormFinishedProductRepository {
	return &GormFinishedProductRepository{db: db}
}

// Save creates or updates a finished product
func (r *GormFinishedProductRepository) Save(ctx context.Context, product *catalog.FinishedProduct) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// FindByID finds a finished product by its ID
func (r *GormFinishedProductRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.FinishedProduct, error) {
	var product catalog.FinishedProduct
	if err := r.db.WithContext(ctx).
		First(&product, "tenant_id = ? AND id = ?", tenantID, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// List returns finished products
func (r *GormFinishedProductRepository) List(ctx context.Context, filter shared.Filter) ([]*catalog.FinishedProduct, error) {
	var products []*catalog.FinishedProduct
	query := r.db.WithContext(ctx).
		Model(&catalog.FinishedProduct{}).
		Where("tenant_id = ?", filter.TenantID)

	if filter.OrderBy != "" {
		query = applyOrder(query, filter)
	} else {
		query = query.Order("seal_type ASC, inner_diameter ASC, outer_diameter ASC")
	}
	query = applyPagination(query, filter)

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListBySealType returns in-stock finished products of one seal type
func (r *GormFinishedProductRepository) ListBySealType(ctx context.Context, tenantID uuid.UUID, sealType inventory.SealType) ([]*catalog.FinishedProduct, error) {
	var products []*catalog.FinishedProduct
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND seal_type = ? AND quantity > 0", tenantID, sealType).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Delete removes a finished product
func (r *GormFinishedProductRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&catalog.FinishedProduct{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormLocalProductRepository implements catalog.LocalProductRepository using GORM
type GormLocalProductRepository struct {
	db *gorm.DB
}

// NewGormLocalProductRepository creates a new GormLocalProductRepository
func NewGormLocalProductRepository(db *gorm.DB) *GormLocalProductRepository {
	return &GormLocalProductRepository{db: db}
}

// Save creates or updates a local product
func (r *GormLocalProductRepository) Save(ctx context.Context, product *catalog.LocalProduct) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// FindByID finds a local product by its ID
func (r *GormLocalProductRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.LocalProduct, error) {
	var product catalog.LocalProduct
	if err := r.db.WithContext(ctx).
		First(&product, "tenant_id = ? AND id = ?", tenantID, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByNameAndSupplier finds a local product by its natural key
func (r *GormLocalProductRepository) FindByNameAndSupplier(ctx context.Context, tenantID uuid.UUID, name, supplier string) (*catalog.LocalProduct, error) {
	var product catalog.LocalProduct
	if err := r.db.WithContext(ctx).
		First(&product, "tenant_id = ? AND name = ? AND supplier = ?", tenantID, name, supplier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// List returns local products ordered by name
func (r *GormLocalProductRepository) List(ctx context.Context, filter shared.Filter) ([]*catalog.LocalProduct, error) {
	var products []*catalog.LocalProduct
	query := r.db.WithContext(ctx).
		Model(&catalog.LocalProduct{}).
		Where("tenant_id = ?", filter.TenantID)

	if filter.OrderBy != "" {
		query = applyOrder(query, filter)
	} else {
		query = query.Order("name ASC, supplier ASC")
	}
	query = applyPagination(query, filter)

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// IncrementTotalSold bumps the sold counter in one statement
func (r *GormLocalProductRepository) IncrementTotalSold(ctx context.Context, tenantID uuid.UUID, name, supplier string, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&catalog.LocalProduct{}).
		Where("tenant_id = ? AND name = ? AND supplier = ?", tenantID, name, supplier).
		UpdateColumn("total_sold", gorm.Expr("total_sold + ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a local product
func (r *GormLocalProductRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&catalog.LocalProduct{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure implementations
var (
	_ catalog.FinishedProductRepository = (*GormFinishedProductRepository)(nil)
	_ catalog.LocalProductRepository    = (*GormLocalProductRepository)(nil)
)
