package models

import "github.com/shopspring/decimal"

// Product is a catalog item beneficiaries can add to their lists.
type Product struct {
	ID        string
	Name      string
	UnitPrice decimal.Decimal

	// Unit is the optional unit of measure (e.g. "kg", "dozen").
	Unit string

	// Available controls whether the product can be newly added to lists.
	// Existing entries for a product that becomes unavailable are kept.
	Available bool

	CreatedAt int64
	UpdatedAt int64
}
