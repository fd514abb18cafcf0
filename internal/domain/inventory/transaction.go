package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sealshop/backend/internal/domain/shared"
)

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	TransactionIn  TransactionType = "in"
	TransactionOut TransactionType = "out"
)

// InventoryTransaction is one immutable row of the pieces ledger. Each row
// carries a signed change and a snapshot of the pieces remaining after it,
// so the ledger is auditable without the bucket row.
type InventoryTransaction struct {
	shared.BaseEntity
	TenantID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	BucketID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	MaterialType    MaterialType    `gorm:"type:varchar(10);not null"`
	InnerDiameter   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	OuterDiameter   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Type            TransactionType `gorm:"type:varchar(10);not null"`
	PiecesChange    int             `gorm:"not null"`
	RemainingPieces int             `gorm:"not null"`
	Reason          string          `gorm:"type:varchar(255)"`
	ReferenceID     string          `gorm:"type:varchar(64);index"`
}

func (InventoryTransaction) TableName() string { return "inventory_transactions" }

func newInventoryTransaction(b *InventoryBucket, txType TransactionType, change, before int, reason, referenceID string) *InventoryTransaction {
	return &InventoryTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		TenantID:        b.TenantID,
		BucketID:        b.GetID(),
		MaterialType:    b.MaterialType,
		InnerDiameter:   b.InnerDiameter,
		OuterDiameter:   b.OuterDiameter,
		Type:            txType,
		PiecesChange:    change,
		RemainingPieces: before + change,
		Reason:          reason,
		ReferenceID:     referenceID,
	}
}

// ReplayLedger walks a bucket's transactions in chronological order and
// verifies the running-balance invariant: every row's remaining must equal
// the previous remaining plus its change. Returns the final balance.
func ReplayLedger(txs []InventoryTransaction) (int, error) {
	balance := 0
	var prevAt time.Time
	for i, tx := range txs {
		if i > 0 && tx.CreatedAt.Before(prevAt) {
			return 0, shared.NewDomainError("LEDGER_OUT_OF_ORDER",
				fmt.Sprintf("transaction %s is older than its predecessor", tx.GetID()))
		}
		balance += tx.PiecesChange
		if tx.RemainingPieces != balance {
			return 0, shared.NewDomainError("LEDGER_MISMATCH",
				fmt.Sprintf("transaction %s records remaining %d, replay gives %d",
					tx.GetID(), tx.RemainingPieces, balance))
		}
		if balance < 0 {
			return 0, shared.NewDomainError("LEDGER_NEGATIVE",
				fmt.Sprintf("balance went negative at transaction %s", tx.GetID()))
		}
		prevAt = tx.CreatedAt
	}
	return balance, nil
}
