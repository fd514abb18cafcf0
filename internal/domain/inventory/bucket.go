package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sealshop/backend/internal/domain/shared"
)

// DefaultMinStockLevel is the reorder threshold applied to new buckets.
const DefaultMinStockLevel = 2

// InventoryBucket tracks whole cylinders ("pieces") on hand for one geometry
// of one material type. Pieces move only through Receive and Issue, each of
// which appends an InventoryTransaction to the ledger.
type InventoryBucket struct {
	shared.TenantAggregateRoot
	MaterialType    MaterialType    `gorm:"type:varchar(10);not null;uniqueIndex:idx_bucket_key"`
	InnerDiameter   decimal.Decimal `gorm:"type:decimal(10,2);not null;uniqueIndex:idx_bucket_key"`
	OuterDiameter   decimal.Decimal `gorm:"type:decimal(10,2);not null;uniqueIndex:idx_bucket_key"`
	AvailablePieces int             `gorm:"not null;default:0"`
	MinStockLevel   int             `gorm:"not null;default:2"`
}

func (InventoryBucket) TableName() string { return "inventory_buckets" }

// NewInventoryBucket creates an empty bucket for a geometry.
func NewInventoryBucket(tenantID uuid.UUID, materialType MaterialType, inner, outer decimal.Decimal) (*InventoryBucket, error) {
	if !materialType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MATERIAL_TYPE", "unknown material type: "+string(materialType))
	}
	if !inner.IsPositive() || !outer.IsPositive() || inner.GreaterThanOrEqual(outer) {
		return nil, shared.NewDomainError("INVALID_DIMENSIONS", "diameters must be positive with inner < outer")
	}
	return &InventoryBucket{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		MaterialType:        materialType,
		InnerDiameter:       inner,
		OuterDiameter:       outer,
		MinStockLevel:       DefaultMinStockLevel,
	}, nil
}

// Receive adds pieces to the bucket and returns the ledger entry.
func (b *InventoryBucket) Receive(pieces int, reason, referenceID string) (*InventoryTransaction, error) {
	if pieces <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "received pieces must be positive")
	}
	before := b.AvailablePieces
	b.AvailablePieces += pieces
	b.UpdatedAt = time.Now().UTC()

	tx := newInventoryTransaction(b, TransactionIn, pieces, before, reason, referenceID)
	b.AddDomainEvent(NewBucketAdjustedEvent(b, tx))
	return tx, nil
}

// Issue removes pieces from the bucket and returns the ledger entry.
// Issuing beyond availability fails with ErrInsufficientStock.
func (b *InventoryBucket) Issue(pieces int, reason, referenceID string) (*InventoryTransaction, error) {
	if pieces <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "issued pieces must be positive")
	}
	if pieces > b.AvailablePieces {
		return nil, shared.WrapDomainError("INSUFFICIENT_STOCK",
			"not enough pieces in stock", shared.ErrInsufficientStock)
	}
	before := b.AvailablePieces
	b.AvailablePieces -= pieces
	b.UpdatedAt = time.Now().UTC()

	tx := newInventoryTransaction(b, TransactionOut, -pieces, before, reason, referenceID)
	b.AddDomainEvent(NewBucketAdjustedEvent(b, tx))
	return tx, nil
}

// CanIssue reports whether the bucket holds at least pieces.
func (b *InventoryBucket) CanIssue(pieces int) bool {
	return pieces > 0 && pieces <= b.AvailablePieces
}

// IsLowStock reports whether the bucket is at or below its reorder threshold.
func (b *InventoryBucket) IsLowStock() bool {
	return b.AvailablePieces <= b.MinStockLevel
}
