package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sealshop/backend/internal/domain/billing"
	"github.com/sealshop/backend/internal/domain/catalog"
	"github.com/sealshop/backend/internal/domain/inventory"
	"github.com/sealshop/backend/internal/domain/partner"
	"github.com/sealshop/backend/internal/domain/shared"
	"github.com/sealshop/backend/internal/domain/treasury"
)

// InvoiceService orchestrates the invoice lifecycle: creation with material
// consumption and treasury posting, payments, edits, cancellation and
// restoration.
type InvoiceService struct {
	invoices       billing.InvoiceRepository
	history        billing.EditHistoryRepository
	deleted        billing.DeletedInvoiceRepository
	treasuryLedger treasury.Repository
	localProducts  catalog.LocalProductRepository
	suppliers      partner.SupplierRepository
	allocator      *inventory.Allocator
	workOrders     *WorkOrderService
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewInvoiceService creates an InvoiceService.
func NewInvoiceService(
	invoices billing.InvoiceRepository,
	history billing.EditHistoryRepository,
	deleted billing.DeletedInvoiceRepository,
	treasuryLedger treasury.Repository,
	localProducts catalog.LocalProductRepository,
	suppliers partner.SupplierRepository,
	allocator *inventory.Allocator,
	workOrders *WorkOrderService,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoices:       invoices,
		history:        history,
		deleted:        deleted,
		treasuryLedger: treasuryLedger,
		localProducts:  localProducts,
		suppliers:      suppliers,
		allocator:      allocator,
		workOrders:     workOrders,
		logger:         logger,
	}
}

// SetEventPublisher sets the publisher for domain events.
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateInvoiceCommand carries everything an invoice creation needs.
type CreateInvoiceCommand struct {
	TenantID         uuid.UUID
	CustomerID       *uuid.UUID
	CustomerName     string
	Lines            []billing.InvoiceLine
	ExplicitDiscount *decimal.Decimal
	DiscountType     billing.DiscountType
	DiscountValue    *decimal.Decimal
	PaymentMethod    billing.PaymentMethod
	Notes            string
	SupervisorName   string
}

// CreateInvoice runs the whole creation pipeline. Material shortfalls and
// work-order enrollment failures never fail the invoice; treasury posting
// for immediate methods is idempotent on the invoice reference.
func (s *InvoiceService) CreateInvoice(ctx context.Context, cmd CreateInvoiceCommand) (*billing.Invoice, error) {
	seq, err := s.invoices.NextInvoiceNumber(ctx, cmd.TenantID)
	if err != nil {
		return nil, fmt.Errorf("allocate invoice number: %w", err)
	}

	inv, err := billing.NewInvoice(
		cmd.TenantID,
		billing.FormatInvoiceNumber(seq),
		cmd.CustomerID,
		cmd.CustomerName,
		cmd.Lines,
		cmd.ExplicitDiscount,
		cmd.DiscountType,
		cmd.DiscountValue,
		cmd.PaymentMethod,
		cmd.Notes,
		cmd.SupervisorName,
	)
	if err != nil {
		return nil, err
	}

	for i := range inv.Lines {
		line := &inv.Lines[i]
		switch line.ProductType {
		case billing.ProductManufactured:
			if !line.HasMaterialHint() {
				continue
			}
			if _, err := s.allocator.Allocate(ctx, cmd.TenantID, line.ConsumptionRequest()); err != nil {
				return nil, fmt.Errorf("consume material for line %d: %w", i, err)
			}
		case billing.ProductLocal:
			s.recordLocalSale(ctx, inv, line)
		}
	}

	if err := s.invoices.Save(ctx, inv); err != nil {
		return nil, err
	}

	if inv.IsSettledImmediately() {
		if err := s.postInvoiceIncome(ctx, inv); err != nil {
			return nil, err
		}
	}

	// best effort: the day's order sheet must never block a sale
	if err := s.workOrders.EnrollInvoice(ctx, inv); err != nil {
		s.logger.Error("work order enrollment failed",
			zap.String("invoice", inv.InvoiceNumber), zap.Error(err))
	}

	s.publishEvents(ctx, inv)
	s.logger.Info("invoice created",
		zap.String("invoice", inv.InvoiceNumber),
		zap.String("method", string(inv.PaymentMethod)),
		zap.String("total", inv.TotalAmount.String()))
	return inv, nil
}

// recordLocalSale bumps the product's sold counter and books the purchase
// against the supplier. Both are best-effort bookkeeping around the sale.
func (s *InvoiceService) recordLocalSale(ctx context.Context, inv *billing.Invoice, line *billing.InvoiceLine) {
	if err := s.localProducts.IncrementTotalSold(ctx, inv.TenantID, line.ProductName, line.Supplier, int(line.Quantity)); err != nil {
		s.logger.Error("increment local product sales",
			zap.String("product", line.ProductName), zap.Error(err))
	}
	if line.Supplier == "" {
		return
	}

	amount := line.PurchasePrice.Mul(decimal.NewFromInt(line.Quantity))
	if !amount.IsPositive() {
		return
	}
	supplier, err := s.suppliers.FindByName(ctx, inv.TenantID, line.Supplier)
	if err != nil {
		s.logger.Warn("supplier not on record for local sale",
			zap.String("supplier", line.Supplier), zap.Error(err))
		return
	}
	tx, err := supplier.RecordPurchase(amount,
		fmt.Sprintf("purchase of %s for %s", line.ProductName, inv.InvoiceNumber))
	if err != nil {
		s.logger.Error("record supplier purchase", zap.Error(err))
		return
	}
	if err := s.suppliers.AddToBalances(ctx, inv.TenantID, supplier.Name, amount, amount, decimal.Zero); err != nil {
		s.logger.Error("update supplier balance", zap.Error(err))
		return
	}
	if err := s.suppliers.AppendTransaction(ctx, tx); err != nil {
		s.logger.Error("append supplier transaction", zap.Error(err))
	}
}

// postInvoiceIncome writes the income row for an immediately settled
// invoice, once.
func (s *InvoiceService) postInvoiceIncome(ctx context.Context, inv *billing.Invoice) error {
	ref := inv.TreasuryReference()
	exists, err := s.treasuryLedger.ExistsByReference(ctx, inv.TenantID, ref)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	income, err := treasury.NewIncome(inv.TenantID, inv.PaymentMethod.Account(), inv.TotalAmount,
		"invoice "+inv.InvoiceNumber, ref)
	if err != nil {
		return err
	}
	return s.treasuryLedger.Append(ctx, income)
}

// RecordPayment applies money received against an invoice and books it on
// the paying account.
func (s *InvoiceService) RecordPayment(ctx context.Context, tenantID, invoiceID uuid.UUID, amount decimal.Decimal, method billing.PaymentMethod) (*billing.Invoice, error) {
	if method.IsDeferred() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "a payment cannot be deferred")
	}
	inv, err := s.invoices.FindByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := inv.RecordPayment(amount); err != nil {
		return nil, err
	}
	if err := s.invoices.Save(ctx, inv); err != nil {
		return nil, err
	}

	income, err := treasury.NewIncome(tenantID, method.Account(), amount,
		fmt.Sprintf("payment on %s", inv.InvoiceNumber),
		fmt.Sprintf("payment_%s_%s", inv.GetID(), inv.PaidAmount))
	if err != nil {
		return nil, err
	}
	if err := s.treasuryLedger.Append(ctx, income); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, inv)
	return inv, nil
}

// EditInvoiceCommand carries the fields an edit may change. Nil slices and
// nil pointers mean "leave as is".
type EditInvoiceCommand struct {
	TenantID         uuid.UUID
	InvoiceID        uuid.UUID
	EditedBy         string
	ChangesSummary   string
	Lines            []billing.InvoiceLine
	ExplicitDiscount *decimal.Decimal
	DiscountType     *billing.DiscountType
	DiscountValue    *decimal.Decimal
	CustomerName     *string
	Notes            *string
	SupervisorName   *string
}

// EditInvoice snapshots the current document into the edit history, applies
// the changes, and recomputes the money fields.
func (s *InvoiceService) EditInvoice(ctx context.Context, cmd EditInvoiceCommand) (*billing.Invoice, error) {
	inv, err := s.invoices.FindByID(ctx, cmd.TenantID, cmd.InvoiceID)
	if err != nil {
		return nil, err
	}

	if err := s.history.Append(ctx, billing.NewEditHistoryEntry(inv, cmd.EditedBy, cmd.ChangesSummary)); err != nil {
		return nil, fmt.Errorf("snapshot invoice: %w", err)
	}

	if cmd.Lines != nil {
		for i := range cmd.Lines {
			cmd.Lines[i].InvoiceID = inv.GetID()
		}
		inv.Lines = cmd.Lines
	}
	if cmd.DiscountType != nil {
		inv.DiscountType = *cmd.DiscountType
	}
	if cmd.DiscountValue != nil {
		inv.DiscountValue = *cmd.DiscountValue
	}
	if cmd.CustomerName != nil {
		inv.CustomerName = *cmd.CustomerName
	}
	if cmd.Notes != nil {
		inv.Notes = *cmd.Notes
	}
	if cmd.SupervisorName != nil {
		inv.SupervisorName = *cmd.SupervisorName
	}
	inv.Recalculate(cmd.ExplicitDiscount)

	if err := s.invoices.Save(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// RevertInvoice restores a history snapshot. The state being replaced is
// first written to the history as a system entry, so a revert can itself be
// reverted.
func (s *InvoiceService) RevertInvoice(ctx context.Context, tenantID, invoiceID, entryID uuid.UUID) (*billing.Invoice, error) {
	inv, err := s.invoices.FindByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	entry, err := s.history.FindByID(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.InvoiceID != invoiceID {
		return nil, shared.NewDomainError("INVALID_INPUT", "history entry belongs to another invoice")
	}

	if err := s.history.Append(ctx, billing.NewEditHistoryEntry(inv, billing.SystemRevertEditor,
		"state before revert to "+entry.GetID().String())); err != nil {
		return nil, err
	}

	restoreInvoiceSnapshot(inv, &entry.Snapshot)
	if err := s.invoices.Save(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// restoreInvoiceSnapshot copies the business fields of snap onto inv while
// keeping identity and the optimistic-lock version.
func restoreInvoiceSnapshot(inv *billing.Invoice, snap *billing.Invoice) {
	inv.CustomerID = snap.CustomerID
	inv.CustomerName = snap.CustomerName
	inv.Lines = snap.Lines
	inv.Subtotal = snap.Subtotal
	inv.DiscountType = snap.DiscountType
	inv.DiscountValue = snap.DiscountValue
	inv.Discount = snap.Discount
	inv.TotalAmount = snap.TotalAmount
	inv.PaidAmount = snap.PaidAmount
	inv.RemainingAmount = snap.RemainingAmount
	inv.PaymentMethod = snap.PaymentMethod
	inv.Status = snap.Status
	inv.Notes = snap.Notes
	inv.SupervisorName = snap.SupervisorName
	for i := range inv.Lines {
		inv.Lines[i].InvoiceID = inv.GetID()
	}
}

// CancelOutcome reports what a cancellation compensated.
type CancelOutcome struct {
	MaterialsRestoredMM decimal.Decimal
	TreasuryReversed    bool
	Warnings            []string
}

// CancelInvoice reverses the recorded material consumption, posts the
// compensating treasury expense for immediately settled invoices, parks the
// document in the deleted store and pulls it from the work orders.
func (s *InvoiceService) CancelInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID, deletedBy, reason string) (*CancelOutcome, error) {
	inv, err := s.invoices.FindByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	outcome := &CancelOutcome{MaterialsRestoredMM: decimal.Zero}
	for i := range inv.Lines {
		line := &inv.Lines[i]
		if line.ProductType != billing.ProductManufactured || !line.HasMaterialHint() {
			continue
		}
		rev, err := s.allocator.Reverse(ctx, tenantID, line.ConsumptionRequest())
		if err != nil {
			return nil, fmt.Errorf("reverse consumption: %w", err)
		}
		outcome.MaterialsRestoredMM = outcome.MaterialsRestoredMM.Add(rev.RestoredMM)
		outcome.Warnings = append(outcome.Warnings, rev.Warnings...)
	}

	if inv.IsSettledImmediately() {
		reversed, err := s.reverseInvoiceIncome(ctx, inv)
		if err != nil {
			return nil, err
		}
		outcome.TreasuryReversed = reversed
	}

	if err := s.deleted.Save(ctx, billing.NewDeletedInvoice(inv, deletedBy, reason)); err != nil {
		return nil, err
	}
	if err := s.invoices.Delete(ctx, tenantID, invoiceID); err != nil {
		return nil, err
	}
	if err := s.workOrders.WithdrawInvoice(ctx, tenantID, invoiceID); err != nil {
		s.logger.Error("withdraw cancelled invoice from work orders",
			zap.String("invoice", inv.InvoiceNumber), zap.Error(err))
	}

	if s.eventPublisher != nil {
		event := billing.NewInvoiceCancelledEvent(inv,
			outcome.MaterialsRestoredMM.IsPositive(), outcome.TreasuryReversed)
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Error("publish cancellation event", zap.Error(err))
		}
	}
	return outcome, nil
}

// reverseInvoiceIncome posts the compensating expense, once, and only when
// the original income is actually on the ledger.
func (s *InvoiceService) reverseInvoiceIncome(ctx context.Context, inv *billing.Invoice) (bool, error) {
	hasIncome, err := s.treasuryLedger.ExistsByReference(ctx, inv.TenantID, inv.TreasuryReference())
	if err != nil {
		return false, err
	}
	if !hasIncome {
		return false, nil
	}
	cancelRef := inv.CancellationReference()
	alreadyReversed, err := s.treasuryLedger.ExistsByReference(ctx, inv.TenantID, cancelRef)
	if err != nil {
		return false, err
	}
	if alreadyReversed {
		return true, nil
	}
	expense, err := treasury.NewExpense(inv.TenantID, inv.PaymentMethod.Account(), inv.TotalAmount,
		"cancellation of "+inv.InvoiceNumber, cancelRef)
	if err != nil {
		return false, err
	}
	if err := s.treasuryLedger.Append(ctx, expense); err != nil {
		return false, err
	}
	return true, nil
}

// RestoreInvoice moves a cancelled invoice back to the active store. The
// restoration is record-only: consumption and treasury are not re-applied.
func (s *InvoiceService) RestoreInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (*billing.Invoice, error) {
	deleted, err := s.deleted.FindByInvoiceID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	inv := deleted.Snapshot
	if err := s.invoices.Save(ctx, &inv); err != nil {
		return nil, err
	}
	if err := s.deleted.Remove(ctx, tenantID, invoiceID); err != nil {
		return nil, err
	}
	return &inv, nil
}

// PurgeInvoice drops a cancelled invoice for good.
func (s *InvoiceService) PurgeInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	return s.deleted.Remove(ctx, tenantID, invoiceID)
}

// ChangePaymentMethod switches the settlement method and posts the treasury
// compensation the switch requires.
func (s *InvoiceService) ChangePaymentMethod(ctx context.Context, tenantID, invoiceID uuid.UUID, to billing.PaymentMethod) (*billing.Invoice, error) {
	inv, err := s.invoices.FindByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	change, err := inv.ChangePaymentMethod(to)
	if err != nil {
		return nil, err
	}

	if change.ReverseOld {
		expense, err := treasury.NewExpense(tenantID, change.From.Account(), change.Amount,
			fmt.Sprintf("method change on %s from %s", inv.InvoiceNumber, change.From),
			fmt.Sprintf("method_change_%s_from_%s", inv.GetID(), change.From))
		if err != nil {
			return nil, err
		}
		if err := s.treasuryLedger.Append(ctx, expense); err != nil {
			return nil, err
		}
	}
	if change.PostNew {
		income, err := treasury.NewIncome(tenantID, change.To.Account(), change.Amount,
			fmt.Sprintf("method change on %s to %s", inv.InvoiceNumber, change.To),
			fmt.Sprintf("method_change_%s_to_%s", inv.GetID(), change.To))
		if err != nil {
			return nil, err
		}
		if err := s.treasuryLedger.Append(ctx, income); err != nil {
			return nil, err
		}
	}

	if err := s.invoices.Save(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// GetInvoice loads one invoice.
func (s *InvoiceService) GetInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (*billing.Invoice, error) {
	return s.invoices.FindByID(ctx, tenantID, invoiceID)
}

// ListInvoices returns invoices newest first.
func (s *InvoiceService) ListInvoices(ctx context.Context, tenantID uuid.UUID) ([]*billing.Invoice, error) {
	return s.invoices.List(ctx, shared.Filter{TenantID: tenantID, OrderBy: "date", Desc: true})
}

// ListEditHistory returns the snapshots taken before each edit.
func (s *InvoiceService) ListEditHistory(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]billing.EditHistoryEntry, error) {
	return s.history.ListByInvoice(ctx, tenantID, invoiceID)
}

// EnrollInWorkOrder re-runs the daily work-order enrollment for an existing
// invoice. The create path enrolls automatically; this covers invoices whose
// enrollment was lost to a logged best-effort failure.
func (s *InvoiceService) EnrollInWorkOrder(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	inv, err := s.invoices.FindByID(ctx, tenantID, invoiceID)
	if err != nil {
		return err
	}
	return s.workOrders.EnrollInvoice(ctx, inv)
}

// ListDeletedInvoices returns the parked cancellations.
func (s *InvoiceService) ListDeletedInvoices(ctx context.Context, tenantID uuid.UUID) ([]billing.DeletedInvoice, error) {
	return s.deleted.List(ctx, tenantID)
}

func (s *InvoiceService) publishEvents(ctx context.Context, inv *billing.Invoice) {
	if s.eventPublisher == nil {
		return
	}
	events := inv.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("publish domain events", zap.Error(err))
	}
	inv.ClearDomainEvents()
}
