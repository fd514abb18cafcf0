package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sealshop/backend/internal/domain/partner"
	"github.com/sealshop/backend/internal/domain/shared"
)

// GormSupplierRepository implements partner.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// Save creates or updates a supplier
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

// FindByID finds a supplier by its ID
func (r *GormSupplierRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*partner.Supplier, error) {
	var supplier partner.Supplier
	if err := r.db.WithContext(ctx).
		First(&supplier, "tenant_id = ? AND id = ?", tenantID, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// FindByName finds a supplier by its exact name
func (r *GormSupplierRepository) FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*partner.Supplier, error) {
	var supplier partner.Supplier
	if err := r.db.WithContext(ctx).
		First(&supplier, "tenant_id = ? AND name = ?", tenantID, name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// List returns suppliers ordered by name
func (r *GormSupplierRepository) List(ctx context.Context, filter shared.Filter) ([]*partner.Supplier, error) {
	var suppliers []*partner.Supplier
	query := r.db.WithContext(ctx).
		Model(&partner.Supplier{}).
		Where("tenant_id = ?", filter.TenantID)

	if filter.OrderBy != "" {
		query = applyOrder(query, filter)
	} else {
		query = query.Order("name ASC")
	}
	query = applyPagination(query, filter)

	if err := query.Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

// Delete removes a supplier
func (r *GormSupplierRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&partner.Supplier{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// AppendTransaction writes one supplier ledger row
func (r *GormSupplierRepository) AppendTransaction(ctx context.Context, tx *partner.SupplierTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// ListTransactions returns a supplier's ledger newest first
func (r *GormSupplierRepository) ListTransactions(ctx context.Context, tenantID, supplierID uuid.UUID) ([]partner.SupplierTransaction, error) {
	var txs []partner.SupplierTransaction
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND supplier_id = ?", tenantID, supplierID).
		Order("created_at DESC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// AddToBalances applies the running-total increments in one statement, so
// two concurrent postings cannot lose an update
func (r *GormSupplierRepository) AddToBalances(ctx context.Context, tenantID uuid.UUID, name string, balanceDelta, purchasesDelta, paymentsDelta decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&partner.Supplier{}).
		Where("tenant_id = ? AND name = ?", tenantID, name).
		Updates(map[string]interface{}{
			"balance":         gorm.Expr("balance + ?", balanceDelta),
			"total_purchases": gorm.Expr("total_purchases + ?", purchasesDelta),
			"total_payments":  gorm.Expr("total_payments + ?", paymentsDelta),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormSupplierRepository implements SupplierRepository
var _ partner.SupplierRepository = (*GormSupplierRepository)(nil)
