package billing

import (
	"github.com/sealshop/backend/internal/domain/treasury"
)

// PaymentMethod is how an invoice is settled. Each immediate method maps to
// one treasury account; the deferred sentinel postpones settlement.
type PaymentMethod string

const (
	PayCash         PaymentMethod = "cash"
	PayVodafoneSawy PaymentMethod = "vodafone_sawy"
	PayVodafoneWael PaymentMethod = "vodafone_wael"
	PayInstapay     PaymentMethod = "instapay"
	PayYadElsawy    PaymentMethod = "yad_elsawy"
	PayDeferred     PaymentMethod = "deferred"
)

var paymentAccounts = map[PaymentMethod]treasury.AccountID{
	PayCash:         treasury.AccountCash,
	PayVodafoneSawy: treasury.AccountVodafoneSawy,
	PayVodafoneWael: treasury.AccountVodafoneWael,
	PayInstapay:     treasury.AccountInstapay,
	PayYadElsawy:    treasury.AccountYadElsawy,
	PayDeferred:     treasury.AccountDeferred,
}

// IsValid reports whether the method is known.
func (m PaymentMethod) IsValid() bool {
	_, ok := paymentAccounts[m]
	return ok
}

// IsDeferred reports whether settlement is postponed.
func (m PaymentMethod) IsDeferred() bool {
	return m == PayDeferred
}

// Account returns the treasury account money for this method lands on.
func (m PaymentMethod) Account() treasury.AccountID {
	if acc, ok := paymentAccounts[m]; ok {
		return acc
	}
	return treasury.AccountCash
}

// Status is the invoice settlement state.
type Status string

const (
	// StatusPending is the state every invoice starts in, deferred or not.
	StatusPending Status = "pending"
	// StatusPartial means some but not all of the total has been received.
	StatusPartial Status = "partial"
	// StatusPaid means the remaining amount reached zero.
	StatusPaid Status = "paid"
	// StatusUnpaid marks an invoice pushed back to deferred settlement.
	StatusUnpaid Status = "unpaid"
	// StatusManufactured and StatusCompleted track shop-floor progress and
	// are set from the work order screens, not the payment path.
	StatusManufactured Status = "manufactured"
	StatusCompleted    Status = "completed"
)

// DiscountType selects how DiscountValue is read.
type DiscountType string

const (
	DiscountAmount     DiscountType = "amount"
	DiscountPercentage DiscountType = "percentage"
)
