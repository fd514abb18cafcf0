package billing

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sealshop/backend/internal/domain/inventory"
	"github.com/sealshop/backend/internal/domain/shared"
	"github.com/sealshop/backend/internal/domain/shared/valueobject"
)

func amt(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func testLines(t *testing.T, totals ...int64) []InvoiceLine {
	t.Helper()
	g, err := valueobject.NewSealGeometry(amt(30), amt(50), amt(10))
	require.NoError(t, err)
	var lines []InvoiceLine
	for _, total := range totals {
		l, err := NewManufacturedLine(inventory.SealRS, inventory.MaterialNBR, g, 1, amt(total))
		require.NoError(t, err)
		lines = append(lines, *l)
	}
	return lines
}

func newTestInvoice(t *testing.T, method PaymentMethod, totals ...int64) *Invoice {
	t.Helper()
	inv, err := NewInvoice(uuid.New(), FormatInvoiceNumber(1), nil, "walk-in",
		testLines(t, totals...), nil, "", nil, method, "", "")
	require.NoError(t, err)
	return inv
}

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "INV-000001", FormatInvoiceNumber(1))
	assert.Equal(t, "INV-012345", FormatInvoiceNumber(12345))
}

func TestResolveDiscount(t *testing.T) {
	subtotal := amt(200)

	t.Run("explicit absolute discount wins", func(t *testing.T) {
		explicit := amt(30)
		value := amt(50)
		got := ResolveDiscount(subtotal, &explicit, DiscountPercentage, &value)
		assert.True(t, got.Equal(amt(30)))
	})

	t.Run("percentage of subtotal", func(t *testing.T) {
		value := amt(10)
		got := ResolveDiscount(subtotal, nil, DiscountPercentage, &value)
		assert.True(t, got.Equal(amt(20)))
	})

	t.Run("typed amount read as absolute", func(t *testing.T) {
		value := amt(25)
		got := ResolveDiscount(subtotal, nil, DiscountAmount, &value)
		assert.True(t, got.Equal(amt(25)))
	})

	t.Run("no inputs means no discount", func(t *testing.T) {
		assert.True(t, ResolveDiscount(subtotal, nil, "", nil).IsZero())
	})
}

func TestNewInvoice(t *testing.T) {
	t.Run("status is pending regardless of method", func(t *testing.T) {
		assert.Equal(t, StatusPending, newTestInvoice(t, PayCash, 100).Status)
		assert.Equal(t, StatusPending, newTestInvoice(t, PayDeferred, 100).Status)
	})

	t.Run("deferred starts with full total outstanding", func(t *testing.T) {
		inv := newTestInvoice(t, PayDeferred, 100, 50)
		assert.True(t, inv.RemainingAmount.Equal(amt(150)))
		assert.True(t, inv.PaidAmount.IsZero())
	})

	t.Run("immediate settlement leaves nothing outstanding", func(t *testing.T) {
		inv := newTestInvoice(t, PayCash, 100, 50)
		assert.True(t, inv.RemainingAmount.IsZero())
	})

	t.Run("discount applies before totals", func(t *testing.T) {
		value := amt(10)
		inv, err := NewInvoice(uuid.New(), FormatInvoiceNumber(2), nil, "walk-in",
			testLines(t, 100, 100), nil, DiscountPercentage, &value, PayDeferred, "", "")
		require.NoError(t, err)
		assert.True(t, inv.Subtotal.Equal(amt(200)))
		assert.True(t, inv.Discount.Equal(amt(20)))
		assert.True(t, inv.TotalAmount.Equal(amt(180)))
		assert.True(t, inv.RemainingAmount.Equal(amt(180)))
	})

	t.Run("empty invoice rejected", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), FormatInvoiceNumber(3), nil, "",
			nil, nil, "", nil, PayCash, "", "")
		require.Error(t, err)
	})
}

func TestRecordPayment(t *testing.T) {
	t.Run("partial then settled", func(t *testing.T) {
		inv := newTestInvoice(t, PayDeferred, 100)

		require.NoError(t, inv.RecordPayment(amt(40)))
		assert.Equal(t, StatusPartial, inv.Status)
		assert.True(t, inv.RemainingAmount.Equal(amt(60)))

		require.NoError(t, inv.RecordPayment(amt(60)))
		assert.Equal(t, StatusPaid, inv.Status)
		assert.True(t, inv.RemainingAmount.IsZero())
	})

	t.Run("overpayment clamps at zero", func(t *testing.T) {
		inv := newTestInvoice(t, PayDeferred, 100)
		require.NoError(t, inv.RecordPayment(amt(130)))
		assert.Equal(t, StatusPaid, inv.Status)
		assert.True(t, inv.RemainingAmount.IsZero())
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		inv := newTestInvoice(t, PayDeferred, 100)
		require.Error(t, inv.RecordPayment(decimal.Zero))
	})
}

func TestChangePaymentMethod(t *testing.T) {
	t.Run("deferred to immediate settles in full", func(t *testing.T) {
		inv := newTestInvoice(t, PayDeferred, 100)
		change, err := inv.ChangePaymentMethod(PayInstapay)
		require.NoError(t, err)

		assert.True(t, change.PostNew)
		assert.False(t, change.ReverseOld)
		assert.True(t, change.Amount.Equal(amt(100)))
		assert.Equal(t, StatusPaid, inv.Status)
		assert.True(t, inv.PaidAmount.Equal(amt(100)))
		assert.True(t, inv.RemainingAmount.IsZero())
		assert.Equal(t, PayInstapay, inv.PaymentMethod)
	})

	t.Run("immediate to deferred gives the money back", func(t *testing.T) {
		inv := newTestInvoice(t, PayCash, 100)
		change, err := inv.ChangePaymentMethod(PayDeferred)
		require.NoError(t, err)

		assert.True(t, change.ReverseOld)
		assert.False(t, change.PostNew)
		assert.Equal(t, StatusUnpaid, inv.Status)
		assert.True(t, inv.RemainingAmount.Equal(amt(100)))
		assert.True(t, inv.PaidAmount.IsZero())
	})

	t.Run("immediate to immediate moves between accounts", func(t *testing.T) {
		inv := newTestInvoice(t, PayCash, 100)
		change, err := inv.ChangePaymentMethod(PayVodafoneSawy)
		require.NoError(t, err)

		assert.True(t, change.ReverseOld)
		assert.True(t, change.PostNew)
		assert.Equal(t, StatusPending, inv.Status)
	})

	t.Run("deferred to deferred is invalid", func(t *testing.T) {
		inv := newTestInvoice(t, PayDeferred, 100)
		_, err := inv.ChangePaymentMethod(PayDeferred)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
	})
}

func TestRecalculate(t *testing.T) {
	t.Run("edited lines refresh totals and remaining", func(t *testing.T) {
		inv := newTestInvoice(t, PayDeferred, 100)
		inv.Lines = testLines(t, 100, 80)
		inv.Recalculate(nil)

		assert.True(t, inv.Subtotal.Equal(amt(180)))
		assert.True(t, inv.TotalAmount.Equal(amt(180)))
		assert.True(t, inv.RemainingAmount.Equal(amt(180)))
	})

	t.Run("percentage discount follows the new subtotal", func(t *testing.T) {
		value := amt(10)
		inv, err := NewInvoice(uuid.New(), FormatInvoiceNumber(4), nil, "",
			testLines(t, 100), nil, DiscountPercentage, &value, PayCash, "", "")
		require.NoError(t, err)

		inv.Lines = testLines(t, 200)
		inv.Recalculate(nil)
		assert.True(t, inv.Discount.Equal(amt(20)))
		assert.True(t, inv.TotalAmount.Equal(amt(180)))
	})
}
