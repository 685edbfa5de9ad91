package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmynk/feira/internal/models"
	"github.com/mmynk/feira/internal/storage"
)

// ErrNoProfile is returned when a logged-in user has no beneficiary record.
var ErrNoProfile = errors.New("no beneficiary profile for this account")

// BeneficiaryFinder looks beneficiaries up by email.
type BeneficiaryFinder interface {
	GetBeneficiaryByEmail(ctx context.Context, email string) (*models.Beneficiary, error)
}

// Resolver matches an authenticated identity to its beneficiary profile.
// Users and beneficiaries share nothing but the email address.
type Resolver struct {
	finder BeneficiaryFinder
}

// NewResolver creates a Resolver backed by finder.
func NewResolver(finder BeneficiaryFinder) *Resolver {
	return &Resolver{finder: finder}
}

// Resolve returns the beneficiary whose email matches, or ErrNoProfile.
func (r *Resolver) Resolve(ctx context.Context, email string) (*models.Beneficiary, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrNoProfile
	}
	b, err := r.finder.GetBeneficiaryByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNoProfile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve beneficiary: %w", err)
	}
	return b, nil
}
