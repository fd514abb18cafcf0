package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sealshop/backend/internal/domain/shared"
)

// RawMaterialBatch is one rubber cylinder on the shelf, identified by its
// unit code. Height is the remaining usable length in millimeters; it only
// ever moves through Consume and Restore.
type RawMaterialBatch struct {
	shared.TenantAggregateRoot
	MaterialType  MaterialType    `gorm:"type:varchar(10);not null;index:idx_batch_geometry"`
	InnerDiameter decimal.Decimal `gorm:"type:decimal(10,2);not null;index:idx_batch_geometry"`
	OuterDiameter decimal.Decimal `gorm:"type:decimal(10,2);not null;index:idx_batch_geometry"`
	Height        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PiecesCount   int             `gorm:"not null;default:1"`
	UnitCode      string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_batch_unit_code,composite:tenant_id"`
	CostPerMM     decimal.Decimal `gorm:"type:decimal(10,4)"`
}

func (RawMaterialBatch) TableName() string { return "raw_material_batches" }

// NewRawMaterialBatch creates a batch from an intake.
func NewRawMaterialBatch(
	tenantID uuid.UUID,
	materialType MaterialType,
	inner, outer, height decimal.Decimal,
	piecesCount int,
	unitCode string,
	costPerMM decimal.Decimal,
) (*RawMaterialBatch, error) {
	if !materialType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MATERIAL_TYPE", "unknown material type: "+string(materialType))
	}
	if !inner.IsPositive() || !outer.IsPositive() || !height.IsPositive() {
		return nil, shared.NewDomainError("INVALID_DIMENSIONS", "diameters and height must be positive")
	}
	if inner.GreaterThanOrEqual(outer) {
		return nil, shared.NewDomainError("INVALID_DIMENSIONS", "inner diameter must be smaller than outer diameter")
	}
	if piecesCount < 1 {
		return nil, shared.NewDomainError("INVALID_PIECES_COUNT", "pieces count must be at least 1")
	}
	if unitCode == "" {
		return nil, shared.NewDomainError("MISSING_UNIT_CODE", "unit code is required")
	}

	b := &RawMaterialBatch{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		MaterialType:        materialType,
		InnerDiameter:       inner,
		OuterDiameter:       outer,
		Height:              height,
		PiecesCount:         piecesCount,
		UnitCode:            unitCode,
		CostPerMM:           costPerMM,
	}
	b.AddDomainEvent(NewBatchReceivedEvent(b))
	return b, nil
}

// Consume removes up to mm of height and returns the amount actually removed.
// It never drives the height negative.
func (b *RawMaterialBatch) Consume(mm decimal.Decimal) decimal.Decimal {
	if !mm.IsPositive() {
		return decimal.Zero
	}
	consumed := mm
	if consumed.GreaterThan(b.Height) {
		consumed = b.Height
	}
	b.Height = b.Height.Sub(consumed)
	b.UpdatedAt = time.Now().UTC()
	b.AddDomainEvent(NewBatchConsumedEvent(b, consumed))
	return consumed
}

// Restore returns previously consumed height to the batch, e.g. when an
// invoice is cancelled.
func (b *RawMaterialBatch) Restore(mm decimal.Decimal) {
	if !mm.IsPositive() {
		return
	}
	b.Height = b.Height.Add(mm)
	b.UpdatedAt = time.Now().UTC()
	b.AddDomainEvent(NewBatchRestoredEvent(b, mm))
}

// CanYield reports whether the batch has at least mm of height left.
func (b *RawMaterialBatch) CanYield(mm decimal.Decimal) bool {
	return b.Height.GreaterThanOrEqual(mm)
}

// MaxSeals returns how many seals of the given height the batch can yield.
// A cut plan whose leftover would land in the unusable scrap band gives up
// one seal so the remainder stays workable.
func (b *RawMaterialBatch) MaxSeals(sealHeight decimal.Decimal) int64 {
	perSeal := PerSealHeight(sealHeight)
	if !perSeal.IsPositive() {
		return 0
	}
	max := b.Height.Div(perSeal).Floor().IntPart()
	if max <= 0 {
		return 0
	}
	leftover := b.Height.Sub(perSeal.Mul(decimal.NewFromInt(max)))
	if leftover.IsPositive() && leftover.LessThan(UnusableRemainderMax) {
		max--
	}
	return max
}

// IsLowStock reports whether the remaining height is below the reorder line.
func (b *RawMaterialBatch) IsLowStock() bool {
	return b.Height.LessThan(LowStockHeight)
}

// IsUsable reports whether the batch can still yield any seal at all.
func (b *RawMaterialBatch) IsUsable() bool {
	return b.Height.GreaterThan(MinUsableHeight)
}
