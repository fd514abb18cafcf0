package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money represents a monetary amount in the shop currency.
// Amounts are stored with two decimal places.
type Money struct {
	Amount   decimal.Decimal `gorm:"type:decimal(19,2)"`
	Currency string          `gorm:"type:varchar(3);default:'EGP'"`
}

// NewMoney creates a new money value
func NewMoney(amount decimal.Decimal, currency string) Money {
	if currency == "" {
		currency = "EGP"
	}
	return Money{Amount: amount.Round(2), Currency: currency}
}

// NewMoneyFromFloat creates money from a float amount
func NewMoneyFromFloat(amount float64, currency string) Money {
	return NewMoney(decimal.NewFromFloat(amount), currency)
}

// Zero returns a zero money value in the given currency
func Zero(currency string) Money {
	return NewMoney(decimal.Zero, currency)
}

// Add returns the sum of two money values
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.Currency, other.Currency)
	}
	return NewMoney(m.Amount.Add(other.Amount), m.Currency), nil
}

// Sub returns the difference of two money values
func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.Currency, other.Currency)
	}
	return NewMoney(m.Amount.Sub(other.Amount), m.Currency), nil
}

// Mul multiplies the amount by a factor
func (m Money) Mul(factor decimal.Decimal) Money {
	return NewMoney(m.Amount.Mul(factor), m.Currency)
}

// IsNegative reports whether the amount is below zero
func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

// IsZero reports whether the amount is zero
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// LessThan compares amounts, ignoring currency
func (m Money) LessThan(other Money) bool {
	return m.Amount.LessThan(other.Amount)
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(2), m.Currency)
}
