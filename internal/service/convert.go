package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/feira/internal/calculator"
	"github.com/mmynk/feira/internal/lists"
	"github.com/mmynk/feira/internal/models"
	"github.com/mmynk/feira/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func toAPIBeneficiary(b *models.Beneficiary) *api.Beneficiary {
	out := &api.Beneficiary{
		ID:        b.ID,
		Name:      b.Name,
		Email:     b.Email,
		IsAdmin:   b.IsAdmin,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if b.MonthlyStipend.Valid {
		out.MonthlyStipend = calculator.Format(b.MonthlyStipend.Decimal)
	}
	return out
}

func toAPIProduct(p *models.Product) *api.Product {
	return &api.Product{
		ID:        p.ID,
		Name:      p.Name,
		UnitPrice: calculator.Format(p.UnitPrice),
		Unit:      p.Unit,
		Available: p.Available,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toAPIProducts(products []*models.Product) []*api.Product {
	out := make([]*api.Product, len(products))
	for i, p := range products {
		out[i] = toAPIProduct(p)
	}
	return out
}

func toAPIList(l *models.PurchaseList, total, headroom decimal.Decimal) *api.PurchaseList {
	return &api.PurchaseList{
		ID:            l.ID,
		BeneficiaryID: l.BeneficiaryID,
		Status:        string(l.Status),
		Ceiling:       calculator.Format(l.Ceiling),
		Total:         calculator.Format(total),
		Headroom:      calculator.Format(headroom),
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

func toAPIView(v *lists.View) *api.PurchaseList {
	out := toAPIList(v.List, v.Total, v.Headroom)
	out.EntryCount = len(v.Entries)
	out.Entries = make([]*api.ListEntry, len(v.Entries))
	for i, e := range v.Entries {
		out.Entries[i] = &api.ListEntry{
			ID:          e.ID,
			ProductID:   e.ProductID,
			ProductName: e.ProductName,
			Quantity:    e.Quantity,
			UnitPrice:   calculator.Format(e.UnitPrice),
			Subtotal:    calculator.Format(e.Subtotal()),
		}
	}
	return out
}

func toAPISummary(s lists.Summary) *api.PurchaseList {
	out := toAPIList(s.List, s.Total, s.Headroom)
	out.EntryCount = s.EntryCount
	return out
}

// parseAmount parses a non-negative currency amount with at most two
// fraction digits.
func parseAmount(field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, &lists.ValidationError{Field: field, Reason: "must be a decimal amount"}
	}
	if d.IsNegative() {
		return decimal.Zero, &lists.ValidationError{Field: field, Reason: "must not be negative"}
	}
	if !d.Equal(d.Round(calculator.Places)) {
		return decimal.Zero, &lists.ValidationError{Field: field, Reason: "must have at most two decimal places"}
	}
	return d, nil
}

// parseStipend is parseAmount for an optional value; blank means absent.
func parseStipend(raw string) (decimal.NullDecimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := parseAmount("monthly_stipend", raw)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}
