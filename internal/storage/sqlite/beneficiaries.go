package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/feira/internal/calculator"
	"github.com/mmynk/feira/internal/models"
	"github.com/mmynk/feira/internal/storage"
)

const beneficiaryColumns = `id, name, email, monthly_stipend, is_admin, created_at, updated_at`

// CreateBeneficiary inserts a new beneficiary, generating ID and timestamps.
func (r *repo) CreateBeneficiary(ctx context.Context, b *models.Beneficiary) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	b.CreatedAt, b.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO beneficiaries (`+beneficiaryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Name, b.Email, stipendValue(b.MonthlyStipend), boolToInt(b.IsAdmin), b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert beneficiary: %w", translateError(err))
	}
	return nil
}

// GetBeneficiary retrieves a beneficiary by ID.
func (r *repo) GetBeneficiary(ctx context.Context, id string) (*models.Beneficiary, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+beneficiaryColumns+` FROM beneficiaries WHERE id = ?`, id)
	b, err := scanBeneficiary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: beneficiary %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get beneficiary: %w", err)
	}
	return b, nil
}

// GetBeneficiaryByEmail retrieves a beneficiary by email (case-insensitive).
func (r *repo) GetBeneficiaryByEmail(ctx context.Context, email string) (*models.Beneficiary, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+beneficiaryColumns+` FROM beneficiaries WHERE email = ?`, email)
	b, err := scanBeneficiary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: beneficiary with email %s", storage.ErrNotFound, email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get beneficiary by email: %w", err)
	}
	return b, nil
}

// UpdateBeneficiary overwrites name, email, stipend and admin flag.
func (r *repo) UpdateBeneficiary(ctx context.Context, b *models.Beneficiary) error {
	b.UpdatedAt = time.Now().Unix()
	res, err := r.db.ExecContext(ctx,
		`UPDATE beneficiaries SET name = ?, email = ?, monthly_stipend = ?, is_admin = ?, updated_at = ? WHERE id = ?`,
		b.Name, b.Email, stipendValue(b.MonthlyStipend), boolToInt(b.IsAdmin), b.UpdatedAt, b.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update beneficiary: %w", translateError(err))
	}
	return checkAffected(res, "beneficiary", b.ID)
}

// DeleteBeneficiary removes a beneficiary that owns no purchase lists.
func (r *repo) DeleteBeneficiary(ctx context.Context, id string) error {
	var lists int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM purchase_lists WHERE beneficiary_id = ?`, id,
	).Scan(&lists); err != nil {
		return fmt.Errorf("failed to count purchase lists: %w", err)
	}
	if lists > 0 {
		return fmt.Errorf("%w: beneficiary %s has %d purchase lists", storage.ErrProtected, id, lists)
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM beneficiaries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete beneficiary: %w", translateError(err))
	}
	return checkAffected(res, "beneficiary", id)
}

// ListBeneficiaries returns all beneficiaries ordered by name.
func (r *repo) ListBeneficiaries(ctx context.Context) ([]*models.Beneficiary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+beneficiaryColumns+` FROM beneficiaries ORDER BY name, email`)
	if err != nil {
		return nil, fmt.Errorf("failed to list beneficiaries: %w", err)
	}
	defer rows.Close()

	var out []*models.Beneficiary
	for rows.Next() {
		b, err := scanBeneficiary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan beneficiary: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate beneficiaries: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBeneficiary(s scanner) (*models.Beneficiary, error) {
	b := &models.Beneficiary{}
	var stipend sql.NullString
	var isAdmin int
	if err := s.Scan(&b.ID, &b.Name, &b.Email, &stipend, &isAdmin, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	// A stipend that does not parse is treated as absent.
	b.MonthlyStipend = calculator.ParseStipend(stipend.String)
	b.IsAdmin = isAdmin != 0
	return b, nil
}

func stipendValue(s decimal.NullDecimal) any {
	if !s.Valid {
		return nil
	}
	return calculator.Format(s.Decimal)
}
