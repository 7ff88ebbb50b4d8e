package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a ledger value carried as a decimal string end-to-end.
// It is never converted through a float: ledger-scale values would lose
// precision. The wire form is the string exactly as the caller supplied it.
type Amount string

// ParseAmount validates s as a non-negative decimal and returns it as an
// Amount. The original string is preserved verbatim.
func ParseAmount(s string) (Amount, error) {
	if s == "" {
		return "", fmt.Errorf("amount is empty")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "", fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return "", fmt.Errorf("amount %q is negative", s)
	}
	return Amount(s), nil
}

// Decimal parses the amount into an exact decimal for arithmetic.
func (a Amount) Decimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(string(a))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q: %w", string(a), err)
	}
	return d, nil
}

// IsZero returns true for the empty string or a zero-valued decimal.
func (a Amount) IsZero() bool {
	if a == "" {
		return true
	}
	d, err := a.Decimal()
	return err == nil && d.IsZero()
}

// String returns the amount's wire form.
func (a Amount) String() string {
	return string(a)
}
