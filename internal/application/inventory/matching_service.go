package inventory

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sealshop/backend/internal/domain/catalog"
	"github.com/sealshop/backend/internal/domain/inventory"
	"github.com/sealshop/backend/internal/domain/matching"
	"github.com/sealshop/backend/internal/domain/shared"
)

// MatchingService answers "what can we cut this seal from" queries.
type MatchingService struct {
	batches  inventory.BatchRepository
	products catalog.FinishedProductRepository
	logger   *zap.Logger
}

// NewMatchingService creates a MatchingService.
func NewMatchingService(
	batches inventory.BatchRepository,
	products catalog.FinishedProductRepository,
	logger *zap.Logger,
) *MatchingService {
	return &MatchingService{batches: batches, products: products, logger: logger}
}

// CheckCompatibility loads the usable stock and runs the matcher over it.
func (s *MatchingService) CheckCompatibility(ctx context.Context, tenantID uuid.UUID, q matching.Query) (*matching.Result, error) {
	if err := q.Geometry.Validate(); err != nil {
		return nil, shared.WrapDomainError("INVALID_DIMENSIONS", "invalid query geometry", err)
	}

	batches, err := s.batches.ListUsable(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	products, err := s.products.ListBySealType(ctx, tenantID, q.SealType)
	if err != nil {
		return nil, err
	}

	res := matching.Match(q, batches, products)
	s.logger.Debug("compatibility check",
		zap.String("seal_type", string(q.SealType)),
		zap.Int("materials", len(res.Materials)),
		zap.Int("products", len(res.Products)))
	return &res, nil
}
