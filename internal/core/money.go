// Money parsing helpers for 3-decimal OMR amounts. Amounts travel as
// shopspring decimals and are rounded half-up on the third decimal place
// before storage.

package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for malformed or negative amount input.
var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount converts a form value to a decimal amount.
//
// It accepts both dot (12.345) and comma (12,345) separators. An empty
// string parses to zero: whether zero is acceptable is the validator's
// call, not the parser's. Negative values are rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d.Round(3), nil
}

// FormatAmount renders an amount with exactly 3 decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(3)
}
