package treasury

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sealshop/backend/internal/domain/shared"
)

// AccountID names one cash drawer or wallet. The deferred account is a
// bookkeeping bucket for unpaid invoice totals, not real money.
type AccountID string

const (
	AccountCash         AccountID = "cash"
	AccountVodafoneSawy AccountID = "vodafone_sawy"
	AccountVodafoneWael AccountID = "vodafone_wael"
	AccountInstapay     AccountID = "instapay"
	AccountYadElsawy    AccountID = "yad_elsawy"
	AccountDeferred     AccountID = "deferred"
	AccountMainTreasury AccountID = "main_treasury"
)

// Accounts lists every treasury account in display order.
var Accounts = []AccountID{
	AccountCash,
	AccountVodafoneSawy,
	AccountVodafoneWael,
	AccountInstapay,
	AccountYadElsawy,
	AccountDeferred,
	AccountMainTreasury,
}

// IsValid reports whether the account is known.
func (a AccountID) IsValid() bool {
	for _, acc := range Accounts {
		if acc == a {
			return true
		}
	}
	return false
}

// TransactionType classifies a treasury movement.
type TransactionType string

const (
	Income      TransactionType = "income"
	Expense     TransactionType = "expense"
	TransferIn  TransactionType = "transfer_in"
	TransferOut TransactionType = "transfer_out"
)

// Transaction is one append-only treasury movement. Balances are never
// stored; they are replayed from the ledger.
type Transaction struct {
	shared.BaseEntity
	TenantID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID            AccountID       `gorm:"type:varchar(32);not null;index"`
	Type                 TransactionType `gorm:"type:varchar(16);not null"`
	Amount               decimal.Decimal `gorm:"type:decimal(19,2);not null"`
	Description          string          `gorm:"type:varchar(500)"`
	Reference            string          `gorm:"type:varchar(64);index"`
	RelatedTransactionID *uuid.UUID      `gorm:"type:uuid"`
	Date                 time.Time       `gorm:"not null;index"`
}

func (Transaction) TableName() string { return "treasury_transactions" }

func newTransaction(tenantID uuid.UUID, account AccountID, txType TransactionType, amount decimal.Decimal, description, reference string) (*Transaction, error) {
	if !account.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "unknown treasury account: "+string(account))
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "treasury amount must be positive")
	}
	return &Transaction{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		AccountID:   account,
		Type:        txType,
		Amount:      amount,
		Description: description,
		Reference:   reference,
		Date:        time.Now().UTC(),
	}, nil
}

// NewIncome records money entering an account.
func NewIncome(tenantID uuid.UUID, account AccountID, amount decimal.Decimal, description, reference string) (*Transaction, error) {
	return newTransaction(tenantID, account, Income, amount, description, reference)
}

// NewExpense records money leaving an account.
func NewExpense(tenantID uuid.UUID, account AccountID, amount decimal.Decimal, description, reference string) (*Transaction, error) {
	return newTransaction(tenantID, account, Expense, amount, description, reference)
}

// NewTransfer creates the linked out/in pair that moves amount between two
// accounts. Both rows share the link through RelatedTransactionID.
func NewTransfer(tenantID uuid.UUID, from, to AccountID, amount decimal.Decimal, description string) (*Transaction, *Transaction, error) {
	if from == to {
		return nil, nil, shared.NewDomainError("INVALID_TRANSFER", "transfer accounts must differ")
	}
	out, err := newTransaction(tenantID, from, TransferOut, amount, description, "")
	if err != nil {
		return nil, nil, err
	}
	in, err := newTransaction(tenantID, to, TransferIn, amount, description, "")
	if err != nil {
		return nil, nil, err
	}
	outID := out.GetID()
	inID := in.GetID()
	out.RelatedTransactionID = &inID
	in.RelatedTransactionID = &outID
	return out, in, nil
}
