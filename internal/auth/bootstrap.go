package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/feira/internal/models"
	"github.com/mmynk/feira/internal/storage"
)

// AdminSeed describes the administrator created at startup.
type AdminSeed struct {
	Email    string
	Name     string
	Password string
}

// BootstrapStore is the storage needed by EnsureAdmin.
type BootstrapStore interface {
	UserStorage
	BeneficiaryFinder
	CreateBeneficiary(ctx context.Context, b *models.Beneficiary) error
	UpdateBeneficiary(ctx context.Context, b *models.Beneficiary) error
}

// EnsureAdmin makes sure a login and an administrator beneficiary exist for
// seed.Email. Existing records are kept; an existing beneficiary is promoted
// to administrator. An existing user's password is not changed.
func EnsureAdmin(ctx context.Context, store BootstrapStore, authenticator Authenticator, seed AdminSeed, logger *slog.Logger) error {
	email := NormalizeEmail(seed.Email)
	name := seed.Name
	if name == "" {
		name = email
	}

	_, err := store.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		if _, err := authenticator.Register(ctx, email, name, seed.Password); err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		logger.Info("Admin user created", "email", email)
	case err != nil:
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	b, err := store.GetBeneficiaryByEmail(ctx, email)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		b = &models.Beneficiary{Name: name, Email: email, IsAdmin: true}
		if err := store.CreateBeneficiary(ctx, b); err != nil {
			return fmt.Errorf("failed to create admin profile: %w", err)
		}
		logger.Info("Admin profile created", "beneficiary_id", b.ID, "email", email)
	case err != nil:
		return fmt.Errorf("failed to look up admin profile: %w", err)
	case !b.IsAdmin:
		b.IsAdmin = true
		if err := store.UpdateBeneficiary(ctx, b); err != nil {
			return fmt.Errorf("failed to promote admin profile: %w", err)
		}
		logger.Info("Beneficiary promoted to admin", "beneficiary_id", b.ID, "email", email)
	}
	return nil
}
