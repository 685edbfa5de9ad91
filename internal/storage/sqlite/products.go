package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/feira/internal/calculator"
	"github.com/mmynk/feira/internal/models"
	"github.com/mmynk/feira/internal/storage"
)

const productColumns = `id, name, unit_price, unit, available, created_at, updated_at`

// CreateProduct inserts a new catalog product.
func (r *repo) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	p.CreatedAt, p.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, calculator.Format(p.UnitPrice), nullString(p.Unit), boolToInt(p.Available), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", translateError(err))
	}
	return nil
}

// GetProduct retrieves a product by ID.
func (r *repo) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: product %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// UpdateProduct overwrites a product's editable fields. Captured prices on
// existing list entries are not touched.
func (r *repo) UpdateProduct(ctx context.Context, p *models.Product) error {
	p.UpdatedAt = time.Now().Unix()
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET name = ?, unit_price = ?, unit = ?, available = ?, updated_at = ? WHERE id = ?`,
		p.Name, calculator.Format(p.UnitPrice), nullString(p.Unit), boolToInt(p.Available), p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", translateError(err))
	}
	return checkAffected(res, "product", p.ID)
}

// DeleteProduct removes a product that no list entry references.
func (r *repo) DeleteProduct(ctx context.Context, id string) error {
	var refs int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM list_entries WHERE product_id = ?`, id,
	).Scan(&refs); err != nil {
		return fmt.Errorf("failed to count list entries: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("%w: product %s is on %d list entries", storage.ErrProtected, id, refs)
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", translateError(err))
	}
	return checkAffected(res, "product", id)
}

// ListProducts returns products ordered by name, optionally only available ones.
func (r *repo) ListProducts(ctx context.Context, availableOnly bool) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	if availableOnly {
		query += ` WHERE available = 1`
	}
	query += ` ORDER BY name, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var out []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return out, nil
}

func scanProduct(s scanner) (*models.Product, error) {
	p := &models.Product{}
	var unit sql.NullString
	var available int
	if err := s.Scan(&p.ID, &p.Name, &p.UnitPrice, &unit, &available, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Unit = unit.String
	p.Available = available != 0
	return p, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
