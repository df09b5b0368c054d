package shared

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of date-only values
const DateLayout = "2006-01-02"

// RoundMoney rounds an amount to two decimal places
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// RequirePositive returns a validation error when amount is zero or negative
func RequirePositive(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return NewValidationError(field, field+" must be greater than zero")
	}
	return nil
}

// RequireNonNegative returns a validation error when amount is negative
func RequireNonNegative(field string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return NewValidationError(field, field+" cannot be negative")
	}
	return nil
}

// TruncateToDay drops the clock part of t in its own location
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CivilDate drops the clock and the zone of t, keeping the calendar date it shows
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts calendar days from from to to, each read in its own zone.
// A date-only column comes back at UTC midnight while now is usually local.
func DaysBetween(from, to time.Time) int {
	return int(CivilDate(to).Sub(CivilDate(from)).Hours() / 24)
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, NewValidationError("date", "date must use the YYYY-MM-DD format")
	}
	return t, nil
}

// NormalizeName trims, collapses inner whitespace and lower-cases a display name for comparison
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// CleanName trims and collapses inner whitespace while keeping the original case
func CleanName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
