package billing

import (
	"github.com/shopspring/decimal"

	"github.com/sealshop/backend/internal/domain/shared"
)

const (
	EventInvoiceCreated   = "billing.invoice.created"
	EventInvoicePaid      = "billing.invoice.paid"
	EventInvoiceCancelled = "billing.invoice.cancelled"
)

// InvoiceCreatedEvent fires once per created invoice. The work-order
// enrollment hook subscribes to it.
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string
	TotalAmount   decimal.Decimal
	Deferred      bool
}

func NewInvoiceCreatedEvent(inv *Invoice) InvoiceCreatedEvent {
	return InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInvoiceCreated, inv.GetID()),
		InvoiceNumber:   inv.InvoiceNumber,
		TotalAmount:     inv.TotalAmount,
		Deferred:        inv.PaymentMethod.IsDeferred(),
	}
}

// InvoicePaidEvent fires for every recorded payment.
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber   string
	Amount          decimal.Decimal
	RemainingAmount decimal.Decimal
}

func NewInvoicePaidEvent(inv *Invoice, amount decimal.Decimal) InvoicePaidEvent {
	return InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInvoicePaid, inv.GetID()),
		InvoiceNumber:   inv.InvoiceNumber,
		Amount:          amount,
		RemainingAmount: inv.RemainingAmount,
	}
}

// InvoiceCancelledEvent fires when an invoice is cancelled.
type InvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber     string
	MaterialsRestored bool
	TreasuryReversed  bool
}

func NewInvoiceCancelledEvent(inv *Invoice, materialsRestored, treasuryReversed bool) InvoiceCancelledEvent {
	return InvoiceCancelledEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventInvoiceCancelled, inv.GetID()),
		InvoiceNumber:     inv.InvoiceNumber,
		MaterialsRestored: materialsRestored,
		TreasuryReversed:  treasuryReversed,
	}
}
