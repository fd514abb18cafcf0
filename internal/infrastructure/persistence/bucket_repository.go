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

// GormBucketRepository implements inventory.BucketRepository using GORM
type GormBucketRepository struct {
	db *gorm.DB
}

// NewGormBucketRepository creates a new GormBucketRepository
func NewGormBucketRepository(db *gorm.DB) *GormBucketRepository {
	return &GormBucketRepository{db: db}
}

// Save creates or updates a bucket without a version check
func (r *GormBucketRepository) Save(ctx context.Context, bucket *inventory.InventoryBucket) error {
	return r.db.WithContext(ctx).Save(bucket).Error
}

// SaveWithLock updates a bucket only if its stored version still matches,
// bumping the version in the same statement. A zero-row update means a
// concurrent writer got there first.
func (r *GormBucketRepository) SaveWithLock(ctx context.Context, bucket *inventory.InventoryBucket) error {
	currentVersion := bucket.Version
	result := r.db.WithContext(ctx).
		Model(&inventory.InventoryBucket{}).
		Where("tenant_id = ? AND id = ? AND version = ?", bucket.TenantID, bucket.GetID(), currentVersion).
		Updates(map[string]interface{}{
			"available_pieces": bucket.AvailablePieces,
			"min_stock_level":  bucket.MinStockLevel,
			"version":          currentVersion + 1,
			"updated_at":       bucket.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	bucket.Version = currentVersion + 1
	return nil
}

// FindByID finds a bucket by its ID
func (r *GormBucketRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*inventory.InventoryBucket, error) {
	var bucket inventory.InventoryBucket
	if err := r.db.WithContext(ctx).
		First(&bucket, "tenant_id = ? AND id = ?", tenantID, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bucket, nil
}

// FindByKey finds the bucket for one material type and geometry
func (r *GormBucketRepository) FindByKey(ctx context.Context, tenantID uuid.UUID, materialType inventory.MaterialType, inner, outer decimal.Decimal) (*inventory.InventoryBucket, error) {
	var bucket inventory.InventoryBucket
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND material_type = ?", tenantID, materialType).
		Where("inner_diameter = ? AND outer_diameter = ?", inner, outer).
		First(&bucket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bucket, nil
}

// List returns buckets ordered by material priority then diameters
func (r *GormBucketRepository) List(ctx context.Context, filter shared.Filter) ([]*inventory.InventoryBucket, error) {
	var buckets []*inventory.InventoryBucket
	query := r.db.WithContext(ctx).
		Model(&inventory.InventoryBucket{}).
		Where("tenant_id = ?", filter.TenantID)

	if filter.OrderBy != "" {
		query = applyOrder(query, filter)
	} else {
		query = query.Order(materialPriority).
			Order("inner_diameter ASC, outer_diameter ASC")
	}
	query = applyPagination(query, filter)

	if err := query.Find(&buckets).Error; err != nil {
		return nil, err
	}
	return buckets, nil
}

// ListLowStock returns buckets at or below their reorder threshold
func (r *GormBucketRepository) ListLowStock(ctx context.Context, tenantID uuid.UUID) ([]*inventory.InventoryBucket, error) {
	var buckets []*inventory.InventoryBucket
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND available_pieces <= min_stock_level", tenantID).
		Order(materialPriority).
		Order("inner_diameter ASC, outer_diameter ASC").
		Find(&buckets).Error; err != nil {
		return nil, err
	}
	return buckets, nil
}

// AppendTransaction writes one immutable ledger row
func (r *GormBucketRepository) AppendTransaction(ctx context.Context, tx *inventory.InventoryTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// ListTransactions returns a bucket's ledger oldest first
func (r *GormBucketRepository) ListTransactions(ctx context.Context, tenantID, bucketID uuid.UUID) ([]inventory.InventoryTransaction, error) {
	var txs []inventory.InventoryTransaction
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND bucket_id = ?", tenantID, bucketID).
		Order("created_at ASC, id ASC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// Ensure GormBucketRepository implements BucketRepository
var _ inventory.BucketRepository = (*GormBucketRepository)(nil)
