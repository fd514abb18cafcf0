package treasury

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sealshop/backend/internal/domain/billing"
	"github.com/sealshop/backend/internal/domain/treasury"
)

// TreasuryService is the money boundary: it appends ledger rows and replays
// them into balances.
type TreasuryService struct {
	ledger   treasury.Repository
	invoices billing.InvoiceRepository
	logger   *zap.Logger
}

// NewTreasuryService creates a TreasuryService.
func NewTreasuryService(ledger treasury.Repository, invoices billing.InvoiceRepository, logger *zap.Logger) *TreasuryService {
	return &TreasuryService{ledger: ledger, invoices: invoices, logger: logger}
}

// RecordIncome appends an income row.
func (s *TreasuryService) RecordIncome(ctx context.Context, tenantID uuid.UUID, account treasury.AccountID, amount decimal.Decimal, description string) (*treasury.Transaction, error) {
	tx, err := treasury.NewIncome(tenantID, account, amount, description, "")
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Append(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// RecordExpense appends an expense row.
func (s *TreasuryService) RecordExpense(ctx context.Context, tenantID uuid.UUID, account treasury.AccountID, amount decimal.Decimal, description string) (*treasury.Transaction, error) {
	tx, err := treasury.NewExpense(tenantID, account, amount, description, "")
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Append(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Transfer moves money between two accounts as a linked pair.
func (s *TreasuryService) Transfer(ctx context.Context, tenantID uuid.UUID, from, to treasury.AccountID, amount decimal.Decimal, description string) error {
	out, in, err := treasury.NewTransfer(tenantID, from, to, amount, description)
	if err != nil {
		return err
	}
	if err := s.ledger.Append(ctx, out, in); err != nil {
		return err
	}
	s.logger.Info("treasury transfer",
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("amount", amount.String()))
	return nil
}

// Balances replays the ledger into per-account balances, folding in the
// outstanding totals of deferred invoices.
func (s *TreasuryService) Balances(ctx context.Context, tenantID uuid.UUID) (map[treasury.AccountID]decimal.Decimal, error) {
	txs, err := s.ledger.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	deferred, err := s.invoices.ListDeferredUnsettled(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	deferredTotals := make([]decimal.Decimal, 0, len(deferred))
	for _, inv := range deferred {
		deferredTotals = append(deferredTotals, inv.RemainingAmount)
	}
	return treasury.ComputeBalances(txs, deferredTotals, nil), nil
}

// ListTransactions returns the ledger, or one account's slice of it.
func (s *TreasuryService) ListTransactions(ctx context.Context, tenantID uuid.UUID, account treasury.AccountID) ([]treasury.Transaction, error) {
	if account == "" {
		return s.ledger.List(ctx, tenantID)
	}
	return s.ledger.ListByAccount(ctx, tenantID, account)
}
