package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/sealshop/backend/internal/domain/shared"
)

// Event type names
const (
	EventBatchReceived  = "inventory.batch.received"
	EventBatchConsumed  = "inventory.batch.consumed"
	EventBatchRestored  = "inventory.batch.restored"
	EventBucketAdjusted = "inventory.bucket.adjusted"
)

// BatchReceivedEvent fires when a new raw material batch enters stock.
type BatchReceivedEvent struct {
	shared.BaseDomainEvent
	UnitCode     string
	MaterialType MaterialType
	Height       decimal.Decimal
}

func NewBatchReceivedEvent(b *RawMaterialBatch) BatchReceivedEvent {
	return BatchReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventBatchReceived, b.GetID()),
		UnitCode:        b.UnitCode,
		MaterialType:    b.MaterialType,
		Height:          b.Height,
	}
}

// BatchConsumedEvent fires when height is cut from a batch.
type BatchConsumedEvent struct {
	shared.BaseDomainEvent
	UnitCode        string
	ConsumedMM      decimal.Decimal
	RemainingHeight decimal.Decimal
}

func NewBatchConsumedEvent(b *RawMaterialBatch, consumed decimal.Decimal) BatchConsumedEvent {
	return BatchConsumedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventBatchConsumed, b.GetID()),
		UnitCode:        b.UnitCode,
		ConsumedMM:      consumed,
		RemainingHeight: b.Height,
	}
}

// BatchRestoredEvent fires when consumed height is returned to a batch.
type BatchRestoredEvent struct {
	shared.BaseDomainEvent
	UnitCode        string
	RestoredMM      decimal.Decimal
	RemainingHeight decimal.Decimal
}

func NewBatchRestoredEvent(b *RawMaterialBatch, restored decimal.Decimal) BatchRestoredEvent {
	return BatchRestoredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventBatchRestored, b.GetID()),
		UnitCode:        b.UnitCode,
		RestoredMM:      restored,
		RemainingHeight: b.Height,
	}
}

// BucketAdjustedEvent fires for every pieces ledger entry.
type BucketAdjustedEvent struct {
	shared.BaseDomainEvent
	MaterialType    MaterialType
	PiecesChange    int
	RemainingPieces int
	Reason          string
}

func NewBucketAdjustedEvent(b *InventoryBucket, tx *InventoryTransaction) BucketAdjustedEvent {
	return BucketAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventBucketAdjusted, b.GetID()),
		MaterialType:    b.MaterialType,
		PiecesChange:    tx.PiecesChange,
		RemainingPieces: tx.RemainingPieces,
		Reason:          tx.Reason,
	}
}
