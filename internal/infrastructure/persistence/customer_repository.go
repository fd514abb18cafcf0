package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sealshop/backend/internal/domain/partner"
	"github.com/sealshop/backend/internal/domain/shared"
)

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	var customer partner.Customer
	if err := r.db.WithContext(ctx).
		First(&customer, "tenant_id = ? AND id = ?", tenantID, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// ExistsByNameOrPhone reports whether a customer already uses the name or
// phone. An empty phone never matches.
func (r *GormCustomerRepository) ExistsByNameOrPhone(ctx context.Context, tenantID uuid.UUID, name, phone string) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&partner.Customer{}).
		Where("tenant_id = ?", tenantID)
	if phone != "" {
		query = query.Where("name = ? OR phone = ?", name, phone)
	} else {
		query = query.Where("name = ?", name)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns customers ordered by name
func (r *GormCustomerRepository) List(ctx context.Context, filter shared.Filter) ([]*partner.Customer, error) {
	var customers []*partner.Customer
	query := r.db.WithContext(ctx).
		Model(&partner.Customer{}).
		Where("tenant_id = ?", filter.TenantID)

	if filter.OrderBy != "" {
		query = applyOrder(query, filter)
	} else {
		query = query.Order("name ASC")
	}
	query = applyPagination(query, filter)

	if err := query.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// Delete removes a customer
func (r *GormCustomerRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&partner.Customer{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
