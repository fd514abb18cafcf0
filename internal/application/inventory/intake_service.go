package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sealshop/backend/internal/domain/inventory"
	"github.com/sealshop/backend/internal/domain/shared"
)

// IntakeService turns whole cylinders from the pieces pool into shelf
// batches, and manages the pieces pool itself.
type IntakeService struct {
	batches        inventory.BatchRepository
	buckets        inventory.BucketRepository
	codes          *inventory.UnitCodeGenerator
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewIntakeService creates an IntakeService.
func NewIntakeService(
	batches inventory.BatchRepository,
	buckets inventory.BucketRepository,
	codes *inventory.UnitCodeGenerator,
	logger *zap.Logger,
) *IntakeService {
	return &IntakeService{
		batches: batches,
		buckets: buckets,
		codes:   codes,
		logger:  logger,
	}
}

// SetEventPublisher sets the publisher for domain events.
func (s *IntakeService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ReceiveMaterialCommand describes one intake: cutting piecesCount cylinders
// of the given geometry into a shelf batch.
type ReceiveMaterialCommand struct {
	TenantID      uuid.UUID
	MaterialType  inventory.MaterialType
	InnerDiameter decimal.Decimal
	OuterDiameter decimal.Decimal
	Height        decimal.Decimal
	PiecesCount   int
	CostPerMM     decimal.Decimal
}

// ReceiveMaterial checks the pieces pool, assigns a unit code, creates the
// batch and writes the ledger entry. The availability check runs before any
// mutation, so an insufficient pool aborts cleanly.
func (s *IntakeService) ReceiveMaterial(ctx context.Context, cmd ReceiveMaterialCommand) (*inventory.RawMaterialBatch, error) {
	bucket, err := s.buckets.FindByKey(ctx, cmd.TenantID, cmd.MaterialType, cmd.InnerDiameter, cmd.OuterDiameter)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError("INSUFFICIENT_STOCK",
				fmt.Sprintf("no %s %sx%s cylinders in stock", cmd.MaterialType, cmd.InnerDiameter, cmd.OuterDiameter),
				shared.ErrInsufficientStock)
		}
		return nil, err
	}
	if !bucket.CanIssue(cmd.PiecesCount) {
		return nil, shared.WrapDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("bucket holds %d pieces, intake needs %d", bucket.AvailablePieces, cmd.PiecesCount),
			shared.ErrInsufficientStock)
	}

	var batch *inventory.RawMaterialBatch
	_, err = s.codes.Reserve(ctx, cmd.TenantID, cmd.MaterialType, cmd.InnerDiameter, cmd.OuterDiameter, func(code string) error {
		b, err := inventory.NewRawMaterialBatch(cmd.TenantID, cmd.MaterialType,
			cmd.InnerDiameter, cmd.OuterDiameter, cmd.Height, cmd.PiecesCount, code, cmd.CostPerMM)
		if err != nil {
			return err
		}
		if err := s.batches.Save(ctx, b); err != nil {
			return err
		}
		batch = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	tx, err := bucket.Issue(cmd.PiecesCount, "material intake", "batch_"+batch.UnitCode)
	if err != nil {
		return nil, err
	}
	if err := s.buckets.SaveWithLock(ctx, bucket); err != nil {
		return nil, err
	}
	if err := s.buckets.AppendTransaction(ctx, tx); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, batch.GetDomainEvents(), bucket.GetDomainEvents())
	batch.ClearDomainEvents()
	bucket.ClearDomainEvents()

	s.logger.Info("material received",
		zap.String("unit_code", batch.UnitCode),
		zap.String("material_type", string(cmd.MaterialType)),
		zap.Int("pieces", cmd.PiecesCount))
	return batch, nil
}

// PurchasePiecesCommand adds cylinders to the pieces pool.
type PurchasePiecesCommand struct {
	TenantID      uuid.UUID
	MaterialType  inventory.MaterialType
	InnerDiameter decimal.Decimal
	OuterDiameter decimal.Decimal
	Pieces        int
	ReferenceID   string
}

// PurchasePieces receives cylinders into the pool, creating the bucket on
// first sight of a geometry.
func (s *IntakeService) PurchasePieces(ctx context.Context, cmd PurchasePiecesCommand) (*inventory.InventoryBucket, error) {
	bucket, err := s.buckets.FindByKey(ctx, cmd.TenantID, cmd.MaterialType, cmd.InnerDiameter, cmd.OuterDiameter)
	if errors.Is(err, shared.ErrNotFound) {
		bucket, err = inventory.NewInventoryBucket(cmd.TenantID, cmd.MaterialType, cmd.InnerDiameter, cmd.OuterDiameter)
	}
	if err != nil {
		return nil, err
	}

	tx, err := bucket.Receive(cmd.Pieces, "purchase", cmd.ReferenceID)
	if err != nil {
		return nil, err
	}
	if err := s.buckets.SaveWithLock(ctx, bucket); err != nil {
		return nil, err
	}
	if err := s.buckets.AppendTransaction(ctx, tx); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, bucket.GetDomainEvents(), nil)
	bucket.ClearDomainEvents()
	return bucket, nil
}

// ListMaterials returns the shelf batches in shop-floor order.
func (s *IntakeService) ListMaterials(ctx context.Context, tenantID uuid.UUID) ([]*inventory.RawMaterialBatch, error) {
	return s.batches.List(ctx, shared.Filter{TenantID: tenantID})
}

// ListLowStockBuckets returns pools at or below their reorder threshold.
func (s *IntakeService) ListLowStockBuckets(ctx context.Context, tenantID uuid.UUID) ([]*inventory.InventoryBucket, error) {
	return s.buckets.ListLowStock(ctx, tenantID)
}

// BucketLedger returns a bucket's transactions after verifying the replay
// invariant against the live pieces count.
func (s *IntakeService) BucketLedger(ctx context.Context, tenantID, bucketID uuid.UUID) ([]inventory.InventoryTransaction, error) {
	bucket, err := s.buckets.FindByID(ctx, tenantID, bucketID)
	if err != nil {
		return nil, err
	}
	txs, err := s.buckets.ListTransactions(ctx, tenantID, bucketID)
	if err != nil {
		return nil, err
	}
	balance, err := inventory.ReplayLedger(txs)
	if err != nil {
		return nil, err
	}
	if balance != bucket.AvailablePieces {
		return nil, shared.NewDomainError("LEDGER_MISMATCH",
			fmt.Sprintf("ledger replays to %d pieces, bucket holds %d", balance, bucket.AvailablePieces))
	}
	return txs, nil
}

func (s *IntakeService) publishEvents(ctx context.Context, groups ...[]shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	for _, events := range groups {
		if len(events) == 0 {
			continue
		}
		if err := s.eventPublisher.Publish(ctx, events...); err != nil {
			s.logger.Error("publish domain events", zap.Error(err))
		}
	}
}
