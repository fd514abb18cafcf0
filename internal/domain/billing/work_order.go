package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sealshop/backend/internal/domain/shared"
)

// WorkOrderItem is one line of an enrolled invoice, enriched with the
// display strings the shop floor reads off the order sheet.
type WorkOrderItem struct {
	Description         string `json:"description"`
	Quantity            int64  `json:"quantity"`
	MaterialInfo        string `json:"material_info"`
	UnitCodeDisplay     string `json:"unit_code_display"`
	WorkOrderDisplay    string `json:"work_order_display"`
	MaterialConsumption string `json:"material_consumption"`
}

// WorkOrderInvoice is the denormalized copy of an invoice inside a work
// order. It survives edits to the live invoice unchanged.
type WorkOrderInvoice struct {
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerName  string          `json:"customer_name"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Items         []WorkOrderItem `json:"items"`
	EnrolledAt    time.Time       `json:"enrolled_at"`
}

// WorkOrder batches the day's invoices for the shop floor. The daily order
// is keyed by date; one-off orders carry IsDaily false.
type WorkOrder struct {
	shared.TenantAggregateRoot
	IsDaily        bool               `gorm:"not null;default:false;index:idx_work_order_day"`
	WorkDate       string             `gorm:"type:varchar(10);not null;index:idx_work_order_day"`
	SupervisorName string             `gorm:"type:varchar(255)"`
	Invoices       []WorkOrderInvoice `gorm:"serializer:json"`
	TotalAmount    decimal.Decimal    `gorm:"type:decimal(19,2);not null"`
	TotalItems     int64              `gorm:"not null;default:0"`
	Status         Status             `gorm:"type:varchar(16);not null"`
}

func (WorkOrder) TableName() string { return "work_orders" }

// WorkDateOf formats t as a work order date key.
func WorkDateOf(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// NewDailyWorkOrder creates the shared order for one calendar day.
func NewDailyWorkOrder(tenantID uuid.UUID, workDate, supervisorName string) *WorkOrder {
	return &WorkOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		IsDaily:             true,
		WorkDate:            workDate,
		SupervisorName:      supervisorName,
		TotalAmount:         decimal.Zero,
		Status:              StatusPending,
	}
}

// Enroll appends an invoice copy and refreshes the totals. Re-enrolling the
// same invoice is ignored.
func (w *WorkOrder) Enroll(copy WorkOrderInvoice, supervisorName string) {
	for _, existing := range w.Invoices {
		if existing.InvoiceID == copy.InvoiceID {
			return
		}
	}
	w.Invoices = append(w.Invoices, copy)
	if supervisorName != "" {
		w.SupervisorName = supervisorName
	}
	w.refreshTotals()
}

// Withdraw removes an invoice copy, reporting whether it was present.
func (w *WorkOrder) Withdraw(invoiceID uuid.UUID) bool {
	for i, existing := range w.Invoices {
		if existing.InvoiceID == invoiceID {
			w.Invoices = append(w.Invoices[:i], w.Invoices[i+1:]...)
			w.refreshTotals()
			return true
		}
	}
	return false
}

func (w *WorkOrder) refreshTotals() {
	total := decimal.Zero
	items := int64(0)
	for _, inv := range w.Invoices {
		total = total.Add(inv.TotalAmount)
		for _, item := range inv.Items {
			items += item.Quantity
		}
	}
	w.TotalAmount = total
	w.TotalItems = items
	w.UpdatedAt = time.Now().UTC()
}
