package models

import "github.com/shopspring/decimal"

// ListStatus is the lifecycle state of a PurchaseList.
type ListStatus string

const (
	ListStatusOpen      ListStatus = "open"
	ListStatusFinalized ListStatus = "finalized"
	ListStatusCancelled ListStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s ListStatus) Valid() bool {
	switch s {
	case ListStatusOpen, ListStatusFinalized, ListStatusCancelled:
		return true
	}
	return false
}

// PurchaseList is a beneficiary's shopping list.
//
// A beneficiary has at most one open list at a time. The sum of entry
// subtotals never exceeds Ceiling.
type PurchaseList struct {
	// ID is the unique identifier (UUID format).
	ID string

	// BeneficiaryID is the owner of the list.
	BeneficiaryID string

	// Status is open, finalized or cancelled. Only open lists accept changes.
	Status ListStatus

	// Ceiling is the purchase limit, computed once when the list was created
	// and never recomputed afterwards.
	Ceiling decimal.Decimal

	CreatedAt int64
	UpdatedAt int64
}

// IsOpen reports whether the list still accepts mutations.
func (l *PurchaseList) IsOpen() bool {
	return l.Status == ListStatusOpen
}

// ListEntry is one product line on a PurchaseList.
type ListEntry struct {
	ID        string
	ListID    string
	ProductID string

	// ProductName is denormalised from the product for display only.
	ProductName string

	// Quantity is always a positive integer.
	Quantity int

	// UnitPrice is the product price captured when the entry was created.
	// Later product price changes do not affect it.
	UnitPrice decimal.Decimal

	CreatedAt int64
	UpdatedAt int64
}

// Subtotal returns Quantity × UnitPrice.
func (e *ListEntry) Subtotal() decimal.Decimal {
	return e.UnitPrice.Mul(decimal.NewFromInt(int64(e.Quantity)))
}
