// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/feira/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a write violates a uniqueness rule.
	ErrConflict = errors.New("record conflicts with an existing one")

	// ErrProtected is returned when deleting a record that is still referenced.
	ErrProtected = errors.New("record is referenced and cannot be deleted")
)

// ListFilter narrows ListPurchaseLists. Zero values match everything.
type ListFilter struct {
	BeneficiaryID string
	Status        models.ListStatus
}

// Repository defines record-level operations. Implementations are used both
// directly and inside a transaction handed out by Store.WithTx.
type Repository interface {
	// Beneficiaries
	CreateBeneficiary(ctx context.Context, b *models.Beneficiary) error
	GetBeneficiary(ctx context.Context, id string) (*models.Beneficiary, error)
	GetBeneficiaryByEmail(ctx context.Context, email string) (*models.Beneficiary, error)
	UpdateBeneficiary(ctx context.Context, b *models.Beneficiary) error
	DeleteBeneficiary(ctx context.Context, id string) error
	ListBeneficiaries(ctx context.Context) ([]*models.Beneficiary, error)

	// Products
	CreateProduct(ctx context.Context, p *models.Product) error
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	ListProducts(ctx context.Context, availableOnly bool) ([]*models.Product, error)

	// Purchase lists
	CreatePurchaseList(ctx context.Context, l *models.PurchaseList) error
	GetPurchaseList(ctx context.Context, id string) (*models.PurchaseList, error)
	// FindOpenList returns the beneficiary's open list, or ErrNotFound.
	FindOpenList(ctx context.Context, beneficiaryID string) (*models.PurchaseList, error)
	UpdatePurchaseListStatus(ctx context.Context, id string, status models.ListStatus) error
	// TouchPurchaseList bumps the list's last-update timestamp.
	TouchPurchaseList(ctx context.Context, id string) error
	ListPurchaseLists(ctx context.Context, filter ListFilter) ([]*models.PurchaseList, error)

	// List entries
	CreateListEntry(ctx context.Context, e *models.ListEntry) error
	GetListEntry(ctx context.Context, id string) (*models.ListEntry, error)
	// FindListEntry returns the entry for a (list, product) pair, or ErrNotFound.
	FindListEntry(ctx context.Context, listID, productID string) (*models.ListEntry, error)
	UpdateListEntryQuantity(ctx context.Context, id string, quantity int) error
	DeleteListEntry(ctx context.Context, id string) error
	ListEntries(ctx context.Context, listID string) ([]*models.ListEntry, error)

	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Store is a Repository that can also run work atomically.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	Repository

	// WithTx runs fn inside a single transaction. The transaction commits if
	// fn returns nil and rolls back on error or panic.
	WithTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error

	// Close releases any resources held by the store.
	Close() error
}
