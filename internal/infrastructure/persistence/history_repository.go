package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sealshop/backend/internal/domain/billing"
	"github.com/sealshop/backend/internal/domain/shared"
)

// GormEditHistoryRepository implements billing.EditHistoryRepository using GORM
type GormEditHistoryRepository struct {
	db *gorm.DB
}

// NewGormEditHistoryRepository creates a new GormEditHistoryRepository
func NewGormEditHistoryRepository(db *gorm.DB) *GormEditHistoryRepository {
	return &GormEditHistoryRepository{db: db}
}

// Append writes one immutable history row
func (r *GormEditHistoryRepository) Append(ctx context.Context, entry *billing.EditHistoryEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByID finds a history entry by its ID
func (r *GormEditHistoryRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*billing.EditHistoryEntry, error) {
	var entry billing.EditHistoryEntry
	if err := r.db.WithContext(ctx).
		First(&entry, "tenant_id = ? AND id = ?", tenantID, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// ListByInvoice returns an invoice's history newest first
func (r *GormEditHistoryRepository) ListByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]billing.EditHistoryEntry, error) {
	var entries []billing.EditHistoryEntry
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND invoice_id = ?", tenantID, invoiceID).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// GormDeletedInvoiceRepository implements billing.DeletedInvoiceRepository using GORM
type GormDeletedInvoiceRepository struct {
	db *gorm.DB
}

// NewGormDeletedInvoiceRepository creates a new GormDeletedInvoiceRepository
func NewGormDeletedInvoiceRepository(db *gorm.DB) *GormDeletedInvoiceRepository {
	return &GormDeletedInvoiceRepository{db: db}
}

// Save parks a cancelled invoice
func (r *GormDeletedInvoiceRepository) Save(ctx context.Context, deleted *billing.DeletedInvoice) error {
	return r.db.WithContext(ctx).Save(deleted).Error
}

// FindByInvoiceID finds a parked invoice by the original invoice ID
func (r *GormDeletedInvoiceRepository) FindByInvoiceID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*billing.DeletedInvoice, error) {
	var deleted billing.DeletedInvoice
	if err := r.db.WithContext(ctx).
		First(&deleted, "tenant_id = ? AND invoice_id = ?", tenantID, invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &deleted, nil
}

// List returns parked invoices newest first
func (r *GormDeletedInvoiceRepository) List(ctx context.Context, tenantID uuid.UUID) ([]billing.DeletedInvoice, error) {
	var deleted []billing.DeletedInvoice
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("deleted_at DESC").
		Find(&deleted).Error; err != nil {
		return nil, err
	}
	return deleted, nil
}

// Remove drops a parked invoice, either on restore or on purge
func (r *GormDeletedInvoiceRepository) Remove(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&billing.DeletedInvoice{}, "tenant_id = ? AND invoice_id = ?", tenantID, invoiceID)
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
	_ billing.EditHistoryRepository    = (*GormEditHistoryRepository)(nil)
	_ billing.DeletedInvoiceRepository = (*GormDeletedInvoiceRepository)(nil)
)
