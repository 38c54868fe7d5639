// Package core holds the record domain model and money handling shared by
// the store, projections and persistence gateways.
//
// Money is kept as int64 cents. All arithmetic happens on cents, so two
// decimal places are exact and no binary floating point enters stored or
// compared values; float64 appears only at the file-format boundary.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Money is an exact two-decimal amount in cents.
type Money struct {
	Cents int64
}

// ParseAmount converts a user-entered decimal string to Money. It accepts
// dot and comma separators and half-up rounds the third decimal place.
// Zero and negative amounts are rejected with ErrInvalidAmount.
func ParseAmount(s string) (Money, error) {
	cents, err := parseCents(s)
	if err != nil {
		return Money{}, err
	}
	if cents <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents}, nil
}

// ParseNonNegativeAmount is ParseAmount but permits zero, used for budget
// values where zero means "unset".
func ParseNonNegativeAmount(s string) (Money, error) {
	cents, err := parseCents(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: cents}, nil
}

func parseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafe = math.MaxInt64 / 100
	if iv > maxSafe {
		return 0, ErrInvalidAmount
	}
	// First two fractional digits, half-up rounding on the third.
	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			frac += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				frac++
			}
		}
	}
	return iv*100 + frac, nil
}

// FromFloat converts dollars to Money with half-up rounding to the cent.
// Exact for any value that originated as a two-decimal amount.
func FromFloat(v float64) Money {
	return Money{Cents: int64(math.Round(v * 100))}
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.Cents == 0
}

// Float returns the dollar value as float64, for the raw_amount file field
// and chart collaborators only. Never feed the result back into arithmetic.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100.0
}

// Decimal renders the plain two-decimal string, e.g. "960.00" or "-12.34".
func (m Money) Decimal() string {
	c := m.Cents
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

// String renders the display form "$X.XX" (negative as "-$X.XX").
func (m Money) String() string {
	c := m.Cents
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s$%d.%02d", sign, c/100, c%100)
}

// SignedDisplay renders the signed history form used by the ledger file:
// "+$X.XX" for income, "-$X.XX" for expenses.
func (m Money) SignedDisplay(k Kind) string {
	c := m.Cents
	if c < 0 {
		c = -c
	}
	sign := "+"
	if k == KindExpense {
		sign = "-"
	}
	return fmt.Sprintf("%s$%d.%02d", sign, c/100, c%100)
}
