// Package models defines the core domain models for Feira.
//
// # Records
//
//   - Beneficiary: a person with a fixed monthly stipend who shops from the catalog
//   - Product: a catalog item with a unit price and availability flag
//   - PurchaseList: a beneficiary's shopping list, capped by a frozen purchase ceiling
//   - ListEntry: one product line on a list, with the unit price captured when first added
//   - User: a login identity, matched to a Beneficiary by email
//
// # Money
//
// All currency values are github.com/shopspring/decimal values with two fraction
// digits. Floating point is never used for amounts.
//
// # Relationships
//
// Relationships are ID strings rather than pointers. A PurchaseList owns its
// ListEntry rows; Beneficiary and Product rows are shared and cannot be deleted
// while something references them.
package models
