package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestTotal(t *testing.T) {
	assert.True(t, Total(nil).IsZero())

	lines := []Line{
		{Quantity: 3, UnitPrice: price("0.10")},
		{Quantity: 7, UnitPrice: price("19.99")},
		{Quantity: 1, UnitPrice: price("0.01")},
	}
	assert.Equal(t, "140.24", Format(Total(lines)))
}

func TestIncrementalCost(t *testing.T) {
	// 7×50 − 5×50
	assert.Equal(t, "100.00", Format(IncrementalCost(5, 2, price("50.00"))))
	assert.Equal(t, "250.00", Format(IncrementalCost(0, 5, price("50.00"))))
}

func TestExceeds(t *testing.T) {
	ceiling := price("300.00")
	assert.False(t, Exceeds(price("299.99"), ceiling))
	assert.False(t, Exceeds(price("300.00"), ceiling), "reaching the ceiling is allowed")
	assert.True(t, Exceeds(price("300.01"), ceiling))
	assert.True(t, Exceeds(price("0.01"), decimal.Zero))
}

func TestHeadroom(t *testing.T) {
	assert.Equal(t, "50.00", Format(Headroom(price("300.00"), price("250.00"))))
	assert.Equal(t, "0.00", Format(Headroom(price("300.00"), price("300.00"))))
}
