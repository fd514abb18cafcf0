package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/sealshop/backend/internal/domain/inventory"
	"github.com/sealshop/backend/internal/domain/shared"
)

// FinishedProductRepository persists finished products.
type FinishedProductRepository interface {
	Save(ctx context.Context, product *FinishedProduct) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*FinishedProduct, error)
	List(ctx context.Context, filter shared.Filter) ([]*FinishedProduct, error)
	ListBySealType(ctx context.Context, tenantID uuid.UUID, sealType inventory.SealType) ([]*FinishedProduct, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// LocalProductRepository persists local trade goods.
type LocalProductRepository interface {
	Save(ctx context.Context, product *LocalProduct) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*LocalProduct, error)
	FindByNameAndSupplier(ctx context.Context, tenantID uuid.UUID, name, supplier string) (*LocalProduct, error)
	List(ctx context.Context, filter shared.Filter) ([]*LocalProduct, error)
	// IncrementTotalSold bumps the sold counter atomically.
	IncrementTotalSold(ctx context.Context, tenantID uuid.UUID, name, supplier string, quantity int) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
