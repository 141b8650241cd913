package domain

import (
	"math"

	"github.com/shopspring/decimal"

	dErrors "wellflow/pkg/domain-errors"
)

// InterestPrecision is the number of fractional digits a decimal interest
// carries. Division orders are recorded to eight places industry-wide.
const InterestPrecision = 8

var (
	interestOne       = decimal.NewFromInt(1)
	interestTolerance = decimal.New(1, -9) // 1e-9, construction round-trip guard
	interestEquality  = decimal.New(1, -8) // 1e-8, comparison tolerance
	percentFactor     = decimal.NewFromInt(100)
)

// DecimalInterest is a fractional ownership share in [0, 1] held to exactly
// eight decimal places.
//
// Invariants:
//   - 0 <= value <= 1
//   - value is exactly representable in 8 fractional digits; construction
//     rejects inputs whose 8-digit rounding drifts more than 1e-9, which
//     catches silent precision loss before it reaches the ledger
//
// Immutable; arithmetic returns new values revalidated by the constructor.
type DecimalInterest struct {
	value decimal.Decimal
}

// NewDecimalInterest creates a validated interest from a decimal value.
func NewDecimalInterest(value decimal.Decimal) (DecimalInterest, error) {
	if value.IsNegative() {
		return DecimalInterest{}, dErrors.Newf(dErrors.CodeValidation, "decimal interest %s must not be negative", value)
	}
	if value.GreaterThan(interestOne) {
		return DecimalInterest{}, dErrors.Newf(dErrors.CodeValidation, "decimal interest %s must not exceed 1", value)
	}
	rounded := value.Round(InterestPrecision)
	if value.Sub(rounded).Abs().GreaterThan(interestTolerance) {
		return DecimalInterest{}, dErrors.Newf(dErrors.CodeValidation,
			"decimal interest %s is not representable in %d decimal places", value, InterestPrecision)
	}
	return DecimalInterest{value: rounded}, nil
}

// NewDecimalInterestFromFloat creates an interest from a float, applying the
// same 8-digit representability check. NaN and infinities fail validation.
func NewDecimalInterestFromFloat(value float64) (DecimalInterest, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return DecimalInterest{}, dErrors.Newf(dErrors.CodeValidation, "decimal interest %v is not a finite number", value)
	}
	return NewDecimalInterest(decimal.NewFromFloat(value))
}

// ParseDecimalInterest creates an interest from its canonical fixed-8 string
// form, e.g. "0.12500000". Exact inverse of String for any valid interest.
func ParseDecimalInterest(value string) (DecimalInterest, error) {
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return DecimalInterest{}, dErrors.Newf(dErrors.CodeValidation, "decimal interest %q is not a valid decimal", value)
	}
	return NewDecimalInterest(parsed)
}

// MustDecimalInterest creates an interest, panicking if invalid. Use only in
// tests or for literals known to be valid.
func MustDecimalInterest(value string) DecimalInterest {
	interest, err := ParseDecimalInterest(value)
	if err != nil {
		panic(err)
	}
	return interest
}

// ZeroInterest returns a 0% interest.
func ZeroInterest() DecimalInterest {
	return DecimalInterest{value: decimal.Zero.Round(InterestPrecision)}
}

// FullInterest returns a 100% interest, the sum every well's active orders
// should reach.
func FullInterest() DecimalInterest {
	return DecimalInterest{value: interestOne.Round(InterestPrecision)}
}

// Decimal returns the underlying exact value.
func (d DecimalInterest) Decimal() decimal.Decimal { return d.value }

// Add returns d + other, failing if the result leaves [0, 1].
func (d DecimalInterest) Add(other DecimalInterest) (DecimalInterest, error) {
	return NewDecimalInterest(d.value.Add(other.value))
}

// Subtract returns d - other, failing if the result leaves [0, 1].
func (d DecimalInterest) Subtract(other DecimalInterest) (DecimalInterest, error) {
	return NewDecimalInterest(d.value.Sub(other.value))
}

// Multiply scales d by a non-negative factor, failing if the result leaves
// [0, 1].
func (d DecimalInterest) Multiply(factor decimal.Decimal) (DecimalInterest, error) {
	return NewDecimalInterest(d.value.Mul(factor))
}

// Equals reports equality within 1e-8, one unit in the last held place.
func (d DecimalInterest) Equals(other DecimalInterest) bool {
	return d.value.Sub(other.value).Abs().LessThan(interestEquality)
}

// IsZero reports a 0% interest.
func (d DecimalInterest) IsZero() bool { return d.value.IsZero() }

// Percentage returns the interest scaled to percent, e.g. 0.125 -> 12.5.
func (d DecimalInterest) Percentage() decimal.Decimal {
	return d.value.Mul(percentFactor)
}

// FormatPercentage renders the interest as a percentage string with six
// fractional digits, e.g. "12.500000%".
func (d DecimalInterest) FormatPercentage() string {
	return d.Percentage().StringFixed(6) + "%"
}

// String returns the canonical fixed-8 form used for persistence, e.g.
// "0.12500000".
func (d DecimalInterest) String() string {
	return d.value.StringFixed(InterestPrecision)
}

// SumInterests returns the sum of the given interests as a validated
// interest; a sum above 100% fails the same way any out-of-range
// construction does.
func SumInterests(interests []DecimalInterest) (DecimalInterest, error) {
	total := decimal.Zero
	for _, interest := range interests {
		total = total.Add(interest.value)
	}
	return NewDecimalInterest(total)
}

// ValidateInterestSum reports whether the interests total 100% within the
// given tolerance. A zero tolerance defaults to 1e-8. This is the
// ownership-completeness check: a well's active division orders must account
// for all of its revenue.
func ValidateInterestSum(interests []DecimalInterest, tolerance decimal.Decimal) bool {
	if tolerance.IsZero() {
		tolerance = interestEquality
	}
	total := decimal.Zero
	for _, interest := range interests {
		total = total.Add(interest.value)
	}
	return total.Sub(interestOne).Abs().LessThanOrEqual(tolerance)
}
