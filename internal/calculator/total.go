package calculator

import "github.com/shopspring/decimal"

// Line is the minimal view of a list entry needed for totals.
type Line struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal returns quantity × price.
func Subtotal(quantity int, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// Total sums the subtotals of lines. An empty slice totals zero.
func Total(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(Subtotal(l.Quantity, l.UnitPrice))
	}
	return total
}

// IncrementalCost is the extra spend caused by raising an entry from
// existing to existing+added units at its captured price.
func IncrementalCost(existing, added int, price decimal.Decimal) decimal.Decimal {
	return Subtotal(existing+added, price).Sub(Subtotal(existing, price))
}

// Exceeds reports whether total is strictly greater than ceiling.
// Reaching the ceiling exactly is allowed.
func Exceeds(total, ceiling decimal.Decimal) bool {
	return total.GreaterThan(ceiling)
}

// Headroom is what is left to spend: ceiling − total.
func Headroom(ceiling, total decimal.Decimal) decimal.Decimal {
	return ceiling.Sub(total)
}

// Format renders an amount with currency precision, e.g. "300.00".
func Format(d decimal.Decimal) string {
	return d.StringFixed(Places)
}
