package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/feira/internal/calculator"
	"github.com/mmynk/feira/internal/models"
	"github.com/mmynk/feira/internal/storage"
)

const listColumns = `id, beneficiary_id, status, ceiling, created_at, updated_at`

// CreatePurchaseList inserts a new purchase list. Status defaults to open.
func (r *repo) CreatePurchaseList(ctx context.Context, l *models.PurchaseList) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.Status == "" {
		l.Status = models.ListStatusOpen
	}
	now := time.Now().Unix()
	l.CreatedAt, l.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO purchase_lists (`+listColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		l.ID, l.BeneficiaryID, string(l.Status), calculator.Format(l.Ceiling), l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert purchase list: %w", translateError(err))
	}
	return nil
}

// GetPurchaseList retrieves a purchase list by ID.
func (r *repo) GetPurchaseList(ctx context.Context, id string) (*models.PurchaseList, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+listColumns+` FROM purchase_lists WHERE id = ?`, id)
	l, err := scanList(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: purchase list %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase list: %w", err)
	}
	return l, nil
}

// FindOpenList returns the beneficiary's open list. If several exist, the
// oldest one wins.
func (r *repo) FindOpenList(ctx context.Context, beneficiaryID string) (*models.PurchaseList, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+listColumns+` FROM purchase_lists
		 WHERE beneficiary_id = ? AND status = ?
		 ORDER BY created_at, id LIMIT 1`,
		beneficiaryID, string(models.ListStatusOpen),
	)
	l, err := scanList(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: open list for beneficiary %s", storage.ErrNotFound, beneficiaryID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find open list: %w", err)
	}
	return l, nil
}

// UpdatePurchaseListStatus changes a list's status.
func (r *repo) UpdatePurchaseListStatus(ctx context.Context, id string, status models.ListStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE purchase_lists SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update purchase list status: %w", err)
	}
	return checkAffected(res, "purchase list", id)
}

// TouchPurchaseList records that the list's contents changed.
func (r *repo) TouchPurchaseList(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE purchase_lists SET updated_at = ? WHERE id = ?`, time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to touch purchase list: %w", err)
	}
	return checkAffected(res, "purchase list", id)
}

// ListPurchaseLists returns lists matching filter, newest first.
func (r *repo) ListPurchaseLists(ctx context.Context, filter storage.ListFilter) ([]*models.PurchaseList, error) {
	var (
		where []string
		args  []any
	)
	if filter.BeneficiaryID != "" {
		where = append(where, "beneficiary_id = ?")
		args = append(args, filter.BeneficiaryID)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}

	query := `SELECT ` + listColumns + ` FROM purchase_lists`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase lists: %w", err)
	}
	defer rows.Close()

	var out []*models.PurchaseList
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase list: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate purchase lists: %w", err)
	}
	return out, nil
}

func scanList(s scanner) (*models.PurchaseList, error) {
	l := &models.PurchaseList{}
	var status string
	if err := s.Scan(&l.ID, &l.BeneficiaryID, &status, &l.Ceiling, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.Status = models.ListStatus(status)
	return l, nil
}

const entryColumns = `e.id, e.list_id, e.product_id, p.name, e.quantity, e.unit_price, e.created_at, e.updated_at`

const entryFrom = ` FROM list_entries e JOIN products p ON p.id = e.product_id`

// CreateListEntry inserts a new entry. The (list, product) pair must be new.
func (r *repo) CreateListEntry(ctx context.Context, e *models.ListEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	e.CreatedAt, e.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO list_entries (id, list_id, product_id, quantity, unit_price, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ListID, e.ProductID, e.Quantity, calculator.Format(e.UnitPrice), e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert list entry: %w", translateError(err))
	}
	return nil
}

// GetListEntry retrieves an entry by ID.
func (r *repo) GetListEntry(ctx context.Context, id string) (*models.ListEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+entryColumns+entryFrom+` WHERE e.id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: list entry %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list entry: %w", err)
	}
	return e, nil
}

// FindListEntry retrieves the entry for a product on a list.
func (r *repo) FindListEntry(ctx context.Context, listID, productID string) (*models.ListEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+entryFrom+` WHERE e.list_id = ? AND e.product_id = ?`, listID, productID)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: entry for product %s on list %s", storage.ErrNotFound, productID, listID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find list entry: %w", err)
	}
	return e, nil
}

// UpdateListEntryQuantity sets an entry's quantity.
func (r *repo) UpdateListEntryQuantity(ctx context.Context, id string, quantity int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE list_entries SET quantity = ?, updated_at = ? WHERE id = ?`,
		quantity, time.Now().Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update list entry: %w", translateError(err))
	}
	return checkAffected(res, "list entry", id)
}

// DeleteListEntry removes an entry.
func (r *repo) DeleteListEntry(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM list_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete list entry: %w", err)
	}
	return checkAffected(res, "list entry", id)
}

// ListEntries returns a list's entries ordered by product name.
func (r *repo) ListEntries(ctx context.Context, listID string) ([]*models.ListEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+entryColumns+entryFrom+` WHERE e.list_id = ? ORDER BY p.name, e.id`, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var out []*models.ListEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan list entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate list entries: %w", err)
	}
	return out, nil
}

func scanEntry(s scanner) (*models.ListEntry, error) {
	e := &models.ListEntry{}
	if err := s.Scan(&e.ID, &e.ListID, &e.ProductID, &e.ProductName, &e.Quantity, &e.UnitPrice, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return e, nil
}
