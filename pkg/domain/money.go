package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	dErrors "wellflow/pkg/domain-errors"
)

// DefaultCurrency is assumed when a caller supplies an amount without one.
const DefaultCurrency = "USD"

// Money is an exact monetary amount in a single currency.
//
// Invariants:
//   - Currency is a non-empty code, normalized to upper case
//   - Arithmetic requires both operands to share a currency
//
// Money is immutable; every operation returns a new value. Amounts are
// shopspring decimals so cent-exact deduction math never rounds through a
// binary float.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney creates Money from a decimal amount and currency code.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if currency == "" {
		return Money{}, dErrors.New(dErrors.CodeValidation, "currency is required")
	}
	if len(currency) != 3 {
		return Money{}, dErrors.Newf(dErrors.CodeValidation, "currency %q must be a 3-letter code", currency)
	}
	return Money{amount: amount, currency: normalizeCurrency(currency)}, nil
}

// ParseMoney creates Money from an exact decimal string, e.g. "1000.00".
func ParseMoney(amount, currency string) (Money, error) {
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, dErrors.Newf(dErrors.CodeValidation, "amount %q is not a valid decimal", amount)
	}
	return NewMoney(parsed, currency)
}

// MustMoney creates Money, panicking if invalid. Use only in tests.
func MustMoney(amount, currency string) Money {
	m, err := ParseMoney(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney returns a zero amount in the given currency.
func ZeroMoney(currency string) Money {
	return Money{amount: decimal.Zero, currency: normalizeCurrency(currency)}
}

func normalizeCurrency(currency string) string {
	out := make([]byte, len(currency))
	for i := 0; i < len(currency); i++ {
		c := currency[i]
		if 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

// Amount returns the exact decimal amount.
func (m Money) Amount() decimal.Decimal { return m.amount }

// Currency returns the currency code.
func (m Money) Currency() string { return m.currency }

// IsZero reports whether this is the uninitialized zero value or a zero
// amount.
func (m Money) IsZero() bool { return m.currency == "" || m.amount.IsZero() }

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

func (m Money) checkCurrency(other Money) error {
	if m.currency != other.currency {
		return dErrors.Newf(dErrors.CodeValidation, "currency mismatch: %s vs %s", m.currency, other.currency)
	}
	return nil
}

// Add returns m + other, failing on a currency mismatch.
func (m Money) Add(other Money) (Money, error) {
	if err := m.checkCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Subtract returns m - other, failing on a currency mismatch.
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.checkCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// MultiplyByInterest returns the owner's share of m for the given interest,
// rounded to cents half away from zero.
func (m Money) MultiplyByInterest(interest DecimalInterest) Money {
	return Money{amount: m.amount.Mul(interest.Decimal()).Round(2), currency: m.currency}
}

// Equals reports exact equality of amount and currency.
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// GreaterThan reports m > other, failing on a currency mismatch.
func (m Money) GreaterThan(other Money) (bool, error) {
	if err := m.checkCurrency(other); err != nil {
		return false, err
	}
	return m.amount.GreaterThan(other.amount), nil
}

// String renders the canonical persisted form, e.g. "1000.00 USD".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}

// StringFixed renders the amount alone with two fractional digits.
func (m Money) StringFixed() string {
	return m.amount.StringFixed(2)
}
