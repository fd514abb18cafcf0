package billing

import (
	"time"

	"github.com/google/uuid"

	"github.com/sealshop/backend/internal/domain/shared"
)

// SystemRevertEditor marks history rows written by a revert rather than a
// person.
const SystemRevertEditor = "system_revert"

// EditHistoryEntry snapshots a whole invoice before an edit. Reverting to an
// entry first writes the current state as a new system entry, so the history
// never loses a version.
type EditHistoryEntry struct {
	shared.BaseEntity
	TenantID       uuid.UUID `gorm:"type:uuid;not null;index"`
	InvoiceID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Snapshot       Invoice   `gorm:"serializer:json"`
	EditedBy       string    `gorm:"type:varchar(255)"`
	ChangesSummary string    `gorm:"type:varchar(1000)"`
}

func (EditHistoryEntry) TableName() string { return "invoice_edit_history" }

// NewEditHistoryEntry snapshots inv as it is right now.
func NewEditHistoryEntry(inv *Invoice, editedBy, changesSummary string) *EditHistoryEntry {
	return &EditHistoryEntry{
		BaseEntity:     shared.NewBaseEntity(),
		TenantID:       inv.TenantID,
		InvoiceID:      inv.GetID(),
		Snapshot:       *inv,
		EditedBy:       editedBy,
		ChangesSummary: changesSummary,
	}
}

// DeletedInvoice is a cancelled invoice parked outside the active store.
// Restoring moves the document back without re-running any compensation.
type DeletedInvoice struct {
	shared.BaseEntity
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Snapshot  Invoice   `gorm:"serializer:json"`
	DeletedBy string    `gorm:"type:varchar(255)"`
	DeletedAt time.Time `gorm:"not null"`
	Reason    string    `gorm:"type:varchar(500)"`
}

func (DeletedInvoice) TableName() string { return "deleted_invoices" }

// NewDeletedInvoice parks inv in the deleted store.
func NewDeletedInvoice(inv *Invoice, deletedBy, reason string) *DeletedInvoice {
	return &DeletedInvoice{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   inv.TenantID,
		InvoiceID:  inv.GetID(),
		Snapshot:   *inv,
		DeletedBy:  deletedBy,
		DeletedAt:  time.Now().UTC(),
		Reason:     reason,
	}
}
