package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/sealshop/backend/internal/domain/shared"
)

// InvoiceRepository persists invoices and allocates their numbers.
type InvoiceRepository interface {
	Save(ctx context.Context, inv *Invoice) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*Invoice, error)
	List(ctx context.Context, filter shared.Filter) ([]*Invoice, error)
	ListDeferredUnsettled(ctx context.Context, tenantID uuid.UUID) ([]*Invoice, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// NextInvoiceNumber increments and returns the per-tenant sequence in a
	// single atomic step, so two concurrent creations can never share a
	// number.
	NextInvoiceNumber(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// EditHistoryRepository persists invoice snapshots.
type EditHistoryRepository interface {
	Append(ctx context.Context, entry *EditHistoryEntry) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*EditHistoryEntry, error)
	ListByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]EditHistoryEntry, error)
}

// DeletedInvoiceRepository parks cancelled invoices.
type DeletedInvoiceRepository interface {
	Save(ctx context.Context, deleted *DeletedInvoice) error
	FindByInvoiceID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*DeletedInvoice, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]DeletedInvoice, error)
	Remove(ctx context.Context, tenantID, invoiceID uuid.UUID) error
}

// WorkOrderRepository persists work orders.
type WorkOrderRepository interface {
	Save(ctx context.Context, wo *WorkOrder) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*WorkOrder, error)
	FindDaily(ctx context.Context, tenantID uuid.UUID, workDate string) (*WorkOrder, error)
	List(ctx context.Context, filter shared.Filter) ([]*WorkOrder, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
