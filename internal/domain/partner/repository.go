package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sealshop/backend/internal/domain/shared"
)

// CustomerRepository persists customers.
type CustomerRepository interface {
	Save(ctx context.Context, customer *Customer) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)
	// ExistsByNameOrPhone backs the duplicate-registration check.
	ExistsByNameOrPhone(ctx context.Context, tenantID uuid.UUID, name, phone string) (bool, error)
	List(ctx context.Context, filter shared.Filter) ([]*Customer, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// SupplierRepository persists suppliers and their ledger.
type SupplierRepository interface {
	Save(ctx context.Context, supplier *Supplier) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Supplier, error)
	FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*Supplier, error)
	List(ctx context.Context, filter shared.Filter) ([]*Supplier, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	AppendTransaction(ctx context.Context, tx *SupplierTransaction) error
	ListTransactions(ctx context.Context, tenantID, supplierID uuid.UUID) ([]SupplierTransaction, error)
	// AddToBalances applies atomic increments to the running totals by name,
	// creating nothing: unknown suppliers are a NotFound.
	AddToBalances(ctx context.Context, tenantID uuid.UUID, name string, balanceDelta, purchasesDelta, paymentsDelta decimal.Decimal) error
}
