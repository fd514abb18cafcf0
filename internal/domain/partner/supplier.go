package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sealshop/backend/internal/domain/shared"
)

// Supplier is a source of local trade goods. Balance is what the shop owes;
// purchases raise it, payments lower it.
type Supplier struct {
	shared.TenantAggregateRoot
	Name           string          `gorm:"type:varchar(255);not null;index"`
	Phone          string          `gorm:"type:varchar(32)"`
	Balance        decimal.Decimal `gorm:"type:decimal(19,2);not null;default:0"`
	TotalPurchases decimal.Decimal `gorm:"type:decimal(19,2);not null;default:0"`
	TotalPayments  decimal.Decimal `gorm:"type:decimal(19,2);not null;default:0"`
}

func (Supplier) TableName() string { return "suppliers" }

// NewSupplier creates a supplier.
func NewSupplier(tenantID uuid.UUID, name, phone string) (*Supplier, error) {
	if name == "" {
		return nil, shared.NewDomainError("MISSING_NAME", "supplier name is required")
	}
	return &Supplier{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Phone:               phone,
	}, nil
}

// SupplierTransactionType classifies a supplier ledger row.
type SupplierTransactionType string

const (
	SupplierPurchase SupplierTransactionType = "purchase"
	SupplierPayment  SupplierTransactionType = "payment"
)

// SupplierTransaction is one row of a supplier's ledger.
type SupplierTransaction struct {
	shared.BaseEntity
	TenantID     uuid.UUID               `gorm:"type:uuid;not null;index"`
	SupplierID   uuid.UUID               `gorm:"type:uuid;not null;index"`
	SupplierName string                  `gorm:"type:varchar(255)"`
	Type         SupplierTransactionType `gorm:"type:varchar(16);not null"`
	Amount       decimal.Decimal         `gorm:"type:decimal(19,2);not null"`
	Description  string                  `gorm:"type:varchar(500)"`
}

func (SupplierTransaction) TableName() string { return "supplier_transactions" }

// RecordPurchase appends a purchase and raises the balance.
func (s *Supplier) RecordPurchase(amount decimal.Decimal, description string) (*SupplierTransaction, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "purchase amount must be positive")
	}
	s.Balance = s.Balance.Add(amount)
	s.TotalPurchases = s.TotalPurchases.Add(amount)
	s.UpdatedAt = time.Now().UTC()
	return s.newTransaction(SupplierPurchase, amount, description), nil
}

// RecordPayment appends a payment and lowers the balance.
func (s *Supplier) RecordPayment(amount decimal.Decimal, description string) (*SupplierTransaction, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "payment amount must be positive")
	}
	s.Balance = s.Balance.Sub(amount)
	s.TotalPayments = s.TotalPayments.Add(amount)
	s.UpdatedAt = time.Now().UTC()
	return s.newTransaction(SupplierPayment, amount, description), nil
}

func (s *Supplier) newTransaction(t SupplierTransactionType, amount decimal.Decimal, description string) *SupplierTransaction {
	return &SupplierTransaction{
		BaseEntity:   shared.NewBaseEntity(),
		TenantID:     s.TenantID,
		SupplierID:   s.GetID(),
		SupplierName: s.Name,
		Type:         t,
		Amount:       amount,
		Description:  description,
	}
}
