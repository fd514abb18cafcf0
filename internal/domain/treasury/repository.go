package treasury

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists the append-only treasury ledger.
type Repository interface {
	Append(ctx context.Context, txs ...*Transaction) error
	// ExistsByReference backs idempotent invoice postings: a second income
	// with the same reference must not be written.
	ExistsByReference(ctx context.Context, tenantID uuid.UUID, reference string) (bool, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]Transaction, error)
	ListByAccount(ctx context.Context, tenantID uuid.UUID, account AccountID) ([]Transaction, error)
	ListByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]Transaction, error)
	DeleteByReference(ctx context.Context, tenantID uuid.UUID, reference string) error
}
