package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sealshop/backend/internal/domain/shared"
)

// Invoice is the sale aggregate. Money fields are all derived from the lines
// and the discount; Recalculate is the only place the math lives.
type Invoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber   string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_invoice_number"`
	CustomerID      *uuid.UUID      `gorm:"type:uuid;index"`
	CustomerName    string          `gorm:"type:varchar(255)"`
	Lines           []InvoiceLine   `gorm:"foreignKey:InvoiceID"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(19,2);not null"`
	DiscountType    DiscountType    `gorm:"type:varchar(16)"`
	DiscountValue   decimal.Decimal `gorm:"type:decimal(19,2)"`
	Discount        decimal.Decimal `gorm:"type:decimal(19,2);not null"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(19,2);not null"`
	PaidAmount      decimal.Decimal `gorm:"type:decimal(19,2);not null"`
	RemainingAmount decimal.Decimal `gorm:"type:decimal(19,2);not null"`
	PaymentMethod   PaymentMethod   `gorm:"type:varchar(20);not null"`
	Status          Status          `gorm:"type:varchar(16);not null"`
	Notes           string          `gorm:"type:varchar(1000)"`
	SupervisorName  string          `gorm:"type:varchar(255)"`
	Date            time.Time       `gorm:"not null;index"`
}

func (Invoice) TableName() string { return "invoices" }

// FormatInvoiceNumber renders a sequence value as the printed number.
func FormatInvoiceNumber(seq int64) string {
	return fmt.Sprintf("INV-%06d", seq)
}

// ResolveDiscount turns the discount inputs into an absolute amount. An
// explicit absolute discount wins; otherwise a percentage value is applied
// to the subtotal, and any other typed value is read as an amount.
func ResolveDiscount(subtotal decimal.Decimal, explicit *decimal.Decimal, discountType DiscountType, value *decimal.Decimal) decimal.Decimal {
	if explicit != nil {
		return *explicit
	}
	if value == nil {
		return decimal.Zero
	}
	if discountType == DiscountPercentage {
		return subtotal.Mul(*value).Div(decimal.NewFromInt(100))
	}
	return *value
}

// NewInvoice creates an invoice. The status is always pending at creation,
// whatever the payment method; deferred invoices start with the whole total
// outstanding.
func NewInvoice(
	tenantID uuid.UUID,
	invoiceNumber string,
	customerID *uuid.UUID,
	customerName string,
	lines []InvoiceLine,
	explicitDiscount *decimal.Decimal,
	discountType DiscountType,
	discountValue *decimal.Decimal,
	paymentMethod PaymentMethod,
	notes, supervisorName string,
) (*Invoice, error) {
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_INVOICE", "invoice needs at least one line")
	}
	if !paymentMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "unknown payment method: "+string(paymentMethod))
	}

	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		InvoiceNumber:       invoiceNumber,
		CustomerID:          customerID,
		CustomerName:        customerName,
		Lines:               lines,
		DiscountType:        discountType,
		PaymentMethod:       paymentMethod,
		Status:              StatusPending,
		Notes:               notes,
		SupervisorName:      supervisorName,
		Date:                time.Now().UTC(),
		PaidAmount:          decimal.Zero,
	}
	if discountValue != nil {
		inv.DiscountValue = *discountValue
	}
	for i := range inv.Lines {
		inv.Lines[i].InvoiceID = inv.GetID()
	}

	inv.Subtotal = sumLines(lines)
	inv.Discount = ResolveDiscount(inv.Subtotal, explicitDiscount, discountType, discountValue)
	inv.TotalAmount = inv.Subtotal.Sub(inv.Discount)
	if paymentMethod.IsDeferred() {
		inv.RemainingAmount = inv.TotalAmount
	} else {
		inv.RemainingAmount = decimal.Zero
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))
	return inv, nil
}

func sumLines(lines []InvoiceLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.TotalPrice)
	}
	return total
}

// TreasuryReference is the idempotency key for this invoice's income row.
func (inv *Invoice) TreasuryReference() string {
	return "invoice_" + inv.GetID().String()
}

// CancellationReference is the idempotency key for the compensating expense.
func (inv *Invoice) CancellationReference() string {
	return "cancel_" + inv.GetID().String()
}

// RecordPayment applies money received against a deferred or partially paid
// invoice. Overpayment clamps the remaining amount at zero.
func (inv *Invoice) RecordPayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "payment amount must be positive")
	}
	inv.PaidAmount = inv.PaidAmount.Add(amount)
	inv.RemainingAmount = inv.TotalAmount.Sub(inv.PaidAmount)
	if inv.RemainingAmount.IsNegative() {
		inv.RemainingAmount = decimal.Zero
	}
	if inv.RemainingAmount.IsZero() {
		inv.Status = StatusPaid
	} else {
		inv.Status = StatusPartial
	}
	inv.UpdatedAt = time.Now().UTC()
	inv.AddDomainEvent(NewInvoicePaidEvent(inv, amount))
	return nil
}

// PaymentMethodChange tells the caller which treasury postings a method
// change requires. Amounts always refer to the invoice total.
type PaymentMethodChange struct {
	From       PaymentMethod
	To         PaymentMethod
	ReverseOld bool // post an expense on the old account
	PostNew    bool // post an income on the new account
	Amount     decimal.Decimal
}

// ChangePaymentMethod switches the settlement method and reports the
// treasury compensation required. Deferred to deferred is a no-op error.
func (inv *Invoice) ChangePaymentMethod(to PaymentMethod) (*PaymentMethodChange, error) {
	if !to.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "unknown payment method: "+string(to))
	}
	from := inv.PaymentMethod
	if from.IsDeferred() && to.IsDeferred() {
		return nil, shared.WrapDomainError("INVALID_STATE",
			"invoice is already deferred", shared.ErrInvalidState)
	}

	change := &PaymentMethodChange{From: from, To: to, Amount: inv.TotalAmount}
	switch {
	case from.IsDeferred(): // deferred -> immediate: money arrives now
		change.PostNew = true
		inv.PaidAmount = inv.TotalAmount
		inv.RemainingAmount = decimal.Zero
		inv.Status = StatusPaid
	case to.IsDeferred(): // immediate -> deferred: money goes back out
		change.ReverseOld = true
		inv.PaidAmount = decimal.Zero
		inv.RemainingAmount = inv.TotalAmount
		inv.Status = StatusUnpaid
	default: // immediate -> immediate: move between accounts
		change.ReverseOld = true
		change.PostNew = true
	}

	inv.PaymentMethod = to
	inv.UpdatedAt = time.Now().UTC()
	return change, nil
}

// Recalculate refreshes the derived money fields after lines or discount
// inputs changed. The paid amount is kept; remaining follows the new total.
func (inv *Invoice) Recalculate(explicitDiscount *decimal.Decimal) {
	inv.Subtotal = sumLines(inv.Lines)
	var value *decimal.Decimal
	if !inv.DiscountValue.IsZero() {
		v := inv.DiscountValue
		value = &v
	}
	inv.Discount = ResolveDiscount(inv.Subtotal, explicitDiscount, inv.DiscountType, value)
	inv.TotalAmount = inv.Subtotal.Sub(inv.Discount)
	if inv.PaymentMethod.IsDeferred() {
		inv.RemainingAmount = inv.TotalAmount.Sub(inv.PaidAmount)
		if inv.RemainingAmount.IsNegative() {
			inv.RemainingAmount = decimal.Zero
		}
	}
	inv.UpdatedAt = time.Now().UTC()
}

// IsSettledImmediately reports whether money moved at creation time.
func (inv *Invoice) IsSettledImmediately() bool {
	return !inv.PaymentMethod.IsDeferred()
}
