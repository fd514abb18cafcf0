package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func orderInvoice(total int64, quantities ...int64) WorkOrderInvoice {
	items := make([]WorkOrderItem, 0, len(quantities))
	for _, q := range quantities {
		items = append(items, WorkOrderItem{Description: "seal", Quantity: q})
	}
	return WorkOrderInvoice{
		InvoiceID:     uuid.New(),
		InvoiceNumber: FormatInvoiceNumber(total),
		TotalAmount:   amt(total),
		Items:         items,
		EnrolledAt:    time.Now().UTC(),
	}
}

func TestWorkOrderEnroll(t *testing.T) {
	t.Run("totals follow enrolled invoices", func(t *testing.T) {
		wo := NewDailyWorkOrder(uuid.New(), WorkDateOf(time.Now()), "")
		wo.Enroll(orderInvoice(100, 2, 3), "morning shift")
		wo.Enroll(orderInvoice(50, 1), "")

		assert.True(t, wo.TotalAmount.Equal(amt(150)))
		assert.EqualValues(t, 6, wo.TotalItems)
		assert.Equal(t, "morning shift", wo.SupervisorName)
		assert.Len(t, wo.Invoices, 2)
	})

	t.Run("re-enrolling the same invoice is ignored", func(t *testing.T) {
		wo := NewDailyWorkOrder(uuid.New(), WorkDateOf(time.Now()), "")
		copy := orderInvoice(100, 2)
		wo.Enroll(copy, "")
		wo.Enroll(copy, "")

		assert.Len(t, wo.Invoices, 1)
		assert.True(t, wo.TotalAmount.Equal(amt(100)))
	})
}

func TestWorkOrderWithdraw(t *testing.T) {
	wo := NewDailyWorkOrder(uuid.New(), WorkDateOf(time.Now()), "")
	kept := orderInvoice(100, 2)
	pulled := orderInvoice(60, 4)
	wo.Enroll(kept, "")
	wo.Enroll(pulled, "")

	assert.True(t, wo.Withdraw(pulled.InvoiceID))
	assert.False(t, wo.Withdraw(pulled.InvoiceID))
	assert.True(t, wo.TotalAmount.Equal(amt(100)))
	assert.EqualValues(t, 2, wo.TotalItems)
}
