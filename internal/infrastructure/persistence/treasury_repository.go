package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sealshop/backend/internal/domain/treasury"
)

// GormTreasuryRepository implements treasury.Repository using GORM
type GormTreasuryRepository struct {
	db *gorm.DB
}

// NewGormTreasuryRepository creates a new GormTreasuryRepository
func NewGormTreasuryRepository(db *gorm.DB) *GormTreasuryRepository {
	return &GormTreasuryRepository{db: db}
}

// Append writes transactions in one transaction, so a transfer pair lands
// together or not at all
func (r *GormTreasuryRepository) Append(ctx context.Context, txs ...*treasury.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range txs {
			if err := tx.Create(t).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ExistsByReference reports whether any row carries the reference
func (r *GormTreasuryRepository) ExistsByReference(ctx context.Context, tenantID uuid.UUID, reference string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&treasury.Transaction{}).
		Where("tenant_id = ? AND reference = ?", tenantID, reference).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns the whole ledger oldest first, the order balances replay in
func (r *GormTreasuryRepository) List(ctx context.Context, tenantID uuid.UUID) ([]treasury.Transaction, error) {
	var txs []treasury.Transaction
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("date ASC, created_at ASC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// ListByAccount returns one account's movements oldest first
func (r *GormTreasuryRepository) ListByAccount(ctx context.Context, tenantID uuid.UUID, account treasury.AccountID) ([]treasury.Transaction, error) {
	var txs []treasury.Transaction
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND account_id = ?", tenantID, account).
		Order("date ASC, created_at ASC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// ListByDateRange returns movements between from and to inclusive
func (r *GormTreasuryRepository) ListByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]treasury.Transaction, error) {
	var txs []treasury.Transaction
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND date >= ? AND date <= ?", tenantID, from, to).
		Order("date ASC, created_at ASC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// DeleteByReference drops every row carrying the reference. Missing rows
// are not an error; reversal paths call this best-effort.
func (r *GormTreasuryRepository) DeleteByReference(ctx context.Context, tenantID uuid.UUID, reference string) error {
	return r.db.WithContext(ctx).
		Delete(&treasury.Transaction{}, "tenant_id = ? AND reference = ?", tenantID, reference).Error
}

// Ensure GormTreasuryRepository implements Repository
var _ treasury.Repository = (*GormTreasuryRepository)(nil)
