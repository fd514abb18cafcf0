package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sealshop/backend/internal/domain/billing"
	"github.com/sealshop/backend/internal/domain/shared"
)

// invoiceSequence is the per-tenant counter behind invoice numbers. It
// never leaves the persistence layer.
type invoiceSequence struct {
	TenantID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	NextValue int64     `gorm:"not null;default:1"`
}

func (invoiceSequence) TableName() string { return "invoice_sequences" }

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Save creates or updates an invoice with its lines
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *billing.Invoice) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(inv).Error
}

// FindByID finds an invoice by its ID, lines included
func (r *GormInvoiceRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	var inv billing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&inv, "tenant_id = ? AND id = ?", tenantID, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindByNumber finds an invoice by its printed number
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*billing.Invoice, error) {
	var inv billing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&inv, "tenant_id = ? AND invoice_number = ?", tenantID, number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// List returns invoices newest first
func (r *GormInvoiceRepository) List(ctx context.Context, filter shared.Filter) ([]*billing.Invoice, error) {
	var invoices []*billing.Invoice
	query := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Preload("Lines").
		Where("tenant_id = ?", filter.TenantID)

	if filter.OrderBy != "" {
		query = applyOrder(query, filter)
	} else {
		query = query.Order("date DESC, invoice_number DESC")
	}
	query = applyPagination(query, filter)

	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// ListDeferredUnsettled returns deferred invoices that still carry an
// outstanding amount
func (r *GormInvoiceRepository) ListDeferredUnsettled(ctx context.Context, tenantID uuid.UUID) ([]*billing.Invoice, error) {
	var invoices []*billing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND payment_method = ?", tenantID, billing.PayDeferred).
		Where("remaining_amount > 0").
		Order("date ASC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Delete removes an invoice and its lines
func (r *GormInvoiceRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&billing.Invoice{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Delete(&billing.InvoiceLine{}, "invoice_id = ?", id).Error
	})
}

// NextInvoiceNumber increments and returns the tenant's sequence in one
// transaction. The UPDATE takes the row lock, so two concurrent callers
// serialize on it and can never read the same value.
func (r *GormInvoiceRepository) NextInvoiceNumber(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&invoiceSequence{}).
			Where("tenant_id = ?", tenantID).
			UpdateColumn("next_value", gorm.Expr("next_value + 1"))
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			// first invoice for this tenant; a concurrent first insert is
			// absorbed by the conflict clause, after which the increment
			// must be retried
			seq := invoiceSequence{TenantID: tenantID, NextValue: 1}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seq).Error; err != nil {
				return err
			}
			result = tx.Model(&invoiceSequence{}).
				Where("tenant_id = ?", tenantID).
				UpdateColumn("next_value", gorm.Expr("next_value + 1"))
			if result.Error != nil {
				return result.Error
			}
		}

		var seq invoiceSequence
		if err := tx.First(&seq, "tenant_id = ?", tenantID).Error; err != nil {
			return err
		}
		value = seq.NextValue - 1
		return nil
	})
	if err != nil {
		return 0, err
	}
	return value, nil
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
