package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sealshop/backend/internal/domain/shared"
)

// BatchRepository persists raw material batches.
type BatchRepository interface {
	Save(ctx context.Context, batch *RawMaterialBatch) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*RawMaterialBatch, error)
	FindByUnitCode(ctx context.Context, tenantID uuid.UUID, unitCode string) (*RawMaterialBatch, error)
	// FindBySelection matches a shelf pick: unit code plus both diameters.
	FindBySelection(ctx context.Context, tenantID uuid.UUID, unitCode string, inner, outer decimal.Decimal) (*RawMaterialBatch, error)
	// FindFirstByTypeAndDiameters is the fallback lookup when only material
	// details are known.
	FindFirstByTypeAndDiameters(ctx context.Context, tenantID uuid.UUID, materialType MaterialType, inner, outer decimal.Decimal) (*RawMaterialBatch, error)
	// List returns batches ordered by material priority then diameters.
	List(ctx context.Context, filter shared.Filter) ([]*RawMaterialBatch, error)
	ListUsable(ctx context.Context, tenantID uuid.UUID) ([]*RawMaterialBatch, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// DeductHeight applies a conditional decrement: it fails with
	// ErrInsufficientStock when the batch no longer holds mm of height,
	// rather than driving it negative under a concurrent writer.
	DeductHeight(ctx context.Context, tenantID, id uuid.UUID, mm decimal.Decimal) error
	// RestoreHeight adds previously consumed height back unconditionally.
	RestoreHeight(ctx context.Context, tenantID, id uuid.UUID, mm decimal.Decimal) error
}

// BucketRepository persists inventory buckets and their ledger.
type BucketRepository interface {
	Save(ctx context.Context, bucket *InventoryBucket) error
	// SaveWithLock enforces the aggregate version on update.
	SaveWithLock(ctx context.Context, bucket *InventoryBucket) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*InventoryBucket, error)
	FindByKey(ctx context.Context, tenantID uuid.UUID, materialType MaterialType, inner, outer decimal.Decimal) (*InventoryBucket, error)
	List(ctx context.Context, filter shared.Filter) ([]*InventoryBucket, error)
	ListLowStock(ctx context.Context, tenantID uuid.UUID) ([]*InventoryBucket, error)

	AppendTransaction(ctx context.Context, tx *InventoryTransaction) error
	ListTransactions(ctx context.Context, tenantID, bucketID uuid.UUID) ([]InventoryTransaction, error)
}
