package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	dErrors "wellflow/pkg/domain-errors"
)

// Production months are bounded to a sane accounting window; anything outside
// it is a data-entry error, not history.
const (
	MinProductionYear = 1900
	MaxProductionYear = 2100
)

// ProductionMonth identifies the calendar month a unit of production is
// attributed to. It is the accounting period key for revenue distributions.
//
// Normalized internally to the first day of the month in UTC so two months
// constructed from different sources always compare equal.
type ProductionMonth struct {
	year  int
	month time.Month
}

// NewProductionMonth creates a validated production month.
func NewProductionMonth(year int, month int) (ProductionMonth, error) {
	if year < MinProductionYear || year > MaxProductionYear {
		return ProductionMonth{}, dErrors.Newf(dErrors.CodeValidation,
			"production year %d must be between %d and %d", year, MinProductionYear, MaxProductionYear)
	}
	if month < 1 || month > 12 {
		return ProductionMonth{}, dErrors.Newf(dErrors.CodeValidation, "production month %d must be between 1 and 12", month)
	}
	return ProductionMonth{year: year, month: time.Month(month)}, nil
}

// ProductionMonthOf returns the production month containing t.
func ProductionMonthOf(t time.Time) ProductionMonth {
	return ProductionMonth{year: t.Year(), month: t.Month()}
}

var productionMonthPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// ParseProductionMonth parses the canonical "YYYY-MM" form. The pattern is
// strict: time.Parse would quietly accept unpadded months.
func ParseProductionMonth(value string) (ProductionMonth, error) {
	match := productionMonthPattern.FindStringSubmatch(value)
	if match == nil {
		return ProductionMonth{}, dErrors.Newf(dErrors.CodeValidation, "production month %q must be in YYYY-MM format", value)
	}
	year, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	return NewProductionMonth(year, month)
}

// MustProductionMonth parses a production month, panicking if invalid. Use
// only in tests.
func MustProductionMonth(value string) ProductionMonth {
	month, err := ParseProductionMonth(value)
	if err != nil {
		panic(err)
	}
	return month
}

// Year returns the calendar year.
func (p ProductionMonth) Year() int { return p.year }

// Month returns the calendar month, 1 through 12.
func (p ProductionMonth) Month() int { return int(p.month) }

// FirstDay returns midnight UTC on the first day of the month, the form the
// store persists.
func (p ProductionMonth) FirstDay() time.Time {
	return time.Date(p.year, p.month, 1, 0, 0, 0, 0, time.UTC)
}

// IsZero reports the uninitialized zero value.
func (p ProductionMonth) IsZero() bool { return p.year == 0 }

// Before reports whether p precedes other.
func (p ProductionMonth) Before(other ProductionMonth) bool {
	return p.year < other.year || (p.year == other.year && p.month < other.month)
}

// After reports whether p follows other.
func (p ProductionMonth) After(other ProductionMonth) bool {
	return other.Before(p)
}

// Equals reports the same calendar month.
func (p ProductionMonth) Equals(other ProductionMonth) bool {
	return p.year == other.year && p.month == other.month
}

// IsFuture reports whether p is after the month containing now. Calendar
// semantics: both today and the first of the current month are "current",
// never "future".
func (p ProductionMonth) IsFuture(now time.Time) bool {
	return p.After(ProductionMonthOf(now))
}

// Next returns the following month. The result may fall outside the valid
// year bounds; callers iterating near MaxProductionYear revalidate.
func (p ProductionMonth) Next() ProductionMonth {
	if p.month == time.December {
		return ProductionMonth{year: p.year + 1, month: time.January}
	}
	return ProductionMonth{year: p.year, month: p.month + 1}
}

// Prev returns the preceding month.
func (p ProductionMonth) Prev() ProductionMonth {
	if p.month == time.January {
		return ProductionMonth{year: p.year - 1, month: time.December}
	}
	return ProductionMonth{year: p.year, month: p.month - 1}
}

// MonthsBetween returns the signed count of calendar months from p to other:
// positive when other is later, negative when earlier.
func (p ProductionMonth) MonthsBetween(other ProductionMonth) int {
	return (other.year-p.year)*12 + int(other.month) - int(p.month)
}

// ProductionMonthRange returns every month from start to end inclusive, in
// order. Fails when start is after end.
func ProductionMonthRange(start, end ProductionMonth) ([]ProductionMonth, error) {
	if start.After(end) {
		return nil, dErrors.Newf(dErrors.CodeValidation,
			"production month range start %s is after end %s", start, end)
	}
	months := make([]ProductionMonth, 0, start.MonthsBetween(end)+1)
	for current := start; !current.After(end); current = current.Next() {
		months = append(months, current)
	}
	return months, nil
}

// String returns the canonical "YYYY-MM" form.
func (p ProductionMonth) String() string {
	return fmt.Sprintf("%04d-%02d", p.year, int(p.month))
}
