package models

import "github.com/shopspring/decimal"

// Beneficiary is a person entitled to shop against a monthly stipend.
type Beneficiary struct {
	// ID is the unique identifier (UUID format).
	ID string

	// Name is the full display name.
	Name string

	// Email is unique across beneficiaries. It is also how a logged-in
	// User is matched to a Beneficiary.
	Email string

	// MonthlyStipend is the fixed monthly allotment. An absent stipend is
	// treated as zero when a purchase ceiling is calculated.
	MonthlyStipend decimal.NullDecimal

	// IsAdmin grants access to the administration service.
	IsAdmin bool

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}
