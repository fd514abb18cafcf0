package partner

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sealshop/backend/internal/domain/partner"
	"github.com/sealshop/backend/internal/domain/shared"
	"github.com/sealshop/backend/internal/domain/treasury"
)

// PartnerService manages customers and suppliers.
type PartnerService struct {
	customers      partner.CustomerRepository
	suppliers      partner.SupplierRepository
	treasuryLedger treasury.Repository
	logger         *zap.Logger
}

// NewPartnerService creates a PartnerService.
func NewPartnerService(
	customers partner.CustomerRepository,
	suppliers partner.SupplierRepository,
	treasuryLedger treasury.Repository,
	logger *zap.Logger,
) *PartnerService {
	return &PartnerService{
		customers:      customers,
		suppliers:      suppliers,
		treasuryLedger: treasuryLedger,
		logger:         logger,
	}
}

// RegisterCustomer creates a customer, rejecting duplicates by name or phone.
func (s *PartnerService) RegisterCustomer(ctx context.Context, tenantID uuid.UUID, name, phone, address string) (*partner.Customer, error) {
	exists, err := s.customers.ExistsByNameOrPhone(ctx, tenantID, name, phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.WrapDomainError("ALREADY_EXISTS",
			"a customer with this name or phone is already on record", shared.ErrAlreadyExists)
	}

	customer, err := partner.NewCustomer(tenantID, name, phone, address)
	if err != nil {
		return nil, err
	}
	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// UpdateCustomer changes a customer's contact details.
func (s *PartnerService) UpdateCustomer(ctx context.Context, tenantID, customerID uuid.UUID, name, phone, address string) (*partner.Customer, error) {
	customer, err := s.customers.FindByID(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	if err := customer.Update(name, phone, address); err != nil {
		return nil, err
	}
	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// ListCustomers returns the tenant's customers.
func (s *PartnerService) ListCustomers(ctx context.Context, tenantID uuid.UUID) ([]*partner.Customer, error) {
	return s.customers.List(ctx, shared.Filter{TenantID: tenantID, OrderBy: "name"})
}

// DeleteCustomer removes a customer.
func (s *PartnerService) DeleteCustomer(ctx context.Context, tenantID, customerID uuid.UUID) error {
	return s.customers.Delete(ctx, tenantID, customerID)
}

// RegisterSupplier creates a supplier.
func (s *PartnerService) RegisterSupplier(ctx context.Context, tenantID uuid.UUID, name, phone string) (*partner.Supplier, error) {
	supplier, err := partner.NewSupplier(tenantID, name, phone)
	if err != nil {
		return nil, err
	}
	if err := s.suppliers.Save(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// PaySupplier books a payment on the supplier ledger and takes the money
// out of the chosen treasury account.
func (s *PartnerService) PaySupplier(ctx context.Context, tenantID, supplierID uuid.UUID, amount decimal.Decimal, account treasury.AccountID, description string) (*partner.Supplier, error) {
	supplier, err := s.suppliers.FindByID(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	tx, err := supplier.RecordPayment(amount, description)
	if err != nil {
		return nil, err
	}
	if err := s.suppliers.AddToBalances(ctx, tenantID, supplier.Name, amount.Neg(), decimal.Zero, amount); err != nil {
		return nil, err
	}
	if err := s.suppliers.AppendTransaction(ctx, tx); err != nil {
		return nil, err
	}

	expense, err := treasury.NewExpense(tenantID, account, amount,
		fmt.Sprintf("payment to supplier %s", supplier.Name),
		fmt.Sprintf("supplier_payment_%s", tx.GetID()))
	if err != nil {
		return nil, err
	}
	if err := s.treasuryLedger.Append(ctx, expense); err != nil {
		return nil, err
	}

	s.logger.Info("supplier paid",
		zap.String("supplier", supplier.Name),
		zap.String("amount", amount.String()))
	return supplier, nil
}

// ListSuppliers returns the tenant's suppliers.
func (s *PartnerService) ListSuppliers(ctx context.Context, tenantID uuid.UUID) ([]*partner.Supplier, error) {
	return s.suppliers.List(ctx, shared.Filter{TenantID: tenantID, OrderBy: "name"})
}

// SupplierLedger returns a supplier's transactions.
func (s *PartnerService) SupplierLedger(ctx context.Context, tenantID, supplierID uuid.UUID) ([]partner.SupplierTransaction, error) {
	return s.suppliers.ListTransactions(ctx, tenantID, supplierID)
}
