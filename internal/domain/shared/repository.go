package shared

import (
	"context"

	"github.com/google/uuid"
)

// Filter describes common listing options
type Filter struct {
	TenantID uuid.UUID
	Limit    int
	Offset   int
	OrderBy  string
	Desc     bool
}

// Paginated wraps a page of results with the total row count
type Paginated[T any] struct {
	Items []T
	Total int64
}

// Repository is the base repository interface for aggregates
type Repository[T AggregateRoot] interface {
	Save(ctx context.Context, aggregate T) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (T, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// UnitOfWork runs a function within a transaction boundary
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}
