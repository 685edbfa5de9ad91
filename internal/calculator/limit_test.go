package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPurchaseCeiling(t *testing.T) {
	tests := []struct {
		name    string
		stipend decimal.NullDecimal
		want    string
	}{
		{"absent stipend", decimal.NullDecimal{}, "0.00"},
		{"zero stipend", decimal.NewNullDecimal(decimal.Zero), "0.00"},
		{"whole amount", decimal.NewNullDecimal(decimal.RequireFromString("100.00")), "300.00"},
		{"cents", decimal.NewNullDecimal(decimal.RequireFromString("33.33")), "99.99"},
		{"no float drift", decimal.NewNullDecimal(decimal.RequireFromString("0.10")), "0.30"},
		{"large stipend", decimal.NewNullDecimal(decimal.RequireFromString("99999999.99")), "299999999.97"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PurchaseCeiling(tt.stipend)
			assert.Equal(t, tt.want, Format(got))
		})
	}
}

func TestPurchaseCeiling_IsThreeTimesStipend(t *testing.T) {
	for cents := int64(0); cents <= 100000; cents += 37 {
		s := decimal.New(cents, -2)
		got := PurchaseCeiling(decimal.NewNullDecimal(s))
		assert.True(t, got.Equal(s.Mul(decimal.NewFromInt(3))), "stipend %s", s)
	}
}

func TestParseStipend(t *testing.T) {
	assert.False(t, ParseStipend("").Valid)
	assert.False(t, ParseStipend("   ").Valid)
	assert.False(t, ParseStipend("not-a-number").Valid)

	got := ParseStipend(" 120.50 ")
	assert.True(t, got.Valid)
	assert.Equal(t, "120.50", Format(got.Decimal))

	// Malformed stored values fail safe to a zero ceiling.
	assert.Equal(t, "0.00", Format(PurchaseCeiling(ParseStipend("12,5O"))))
}
