// Package calculator holds the pure money arithmetic behind purchase lists:
// the purchase ceiling derived from a stipend and the running list total.
//
// Every function works on shopspring decimals with two fraction digits.
package calculator

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// CeilingMultiplier is how many monthly stipends a single list may spend.
	CeilingMultiplier = 3

	// Places is the number of fraction digits used for currency.
	Places = 2
)

// PurchaseCeiling returns stipend × CeilingMultiplier rounded to currency
// precision. An absent stipend yields a zero ceiling.
func PurchaseCeiling(stipend decimal.NullDecimal) decimal.Decimal {
	if !stipend.Valid {
		return decimal.Zero
	}
	return stipend.Decimal.Mul(decimal.NewFromInt(CeilingMultiplier)).Round(Places)
}

// ParseStipend reads a stored stipend value. Empty or malformed input is
// reported as absent, which makes the resulting ceiling zero.
func ParseStipend(raw string) decimal.NullDecimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
