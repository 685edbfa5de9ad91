// Package lists maintains beneficiaries' purchase lists and enforces the
// purchase ceiling on every change.
//
// Every mutation runs inside one storage transaction: the limit check and the
// write that follows it either both happen or neither does. No in-process
// locks are taken; the store's transaction isolation serialises concurrent
// changes to the same list.
package lists

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mmynk/feira/internal/calculator"
	"github.com/mmynk/feira/internal/metrics"
	"github.com/mmynk/feira/internal/models"
	"github.com/mmynk/feira/internal/storage"
)

// Operation names used for logging and metrics.
const (
	OpEnsure = "ensure_open_list"
	OpAdd    = "add_product"
	OpUpdate = "update_quantity"
	OpRemove = "remove_entry"
	OpStatus = "set_status"
)

// View is a list together with its entries and derived amounts.
type View struct {
	List     *models.PurchaseList
	Entries  []*models.ListEntry
	Total    decimal.Decimal
	Headroom decimal.Decimal
}

// Summary is a list with its derived amounts but without entries.
type Summary struct {
	List       *models.PurchaseList
	EntryCount int
	Total      decimal.Decimal
	Headroom   decimal.Decimal
}

// Service implements the list operations.
type Service struct {
	store   storage.Store
	metrics *metrics.Recorder
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records operation outcomes on m.
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a Service backed by store.
func NewService(store storage.Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindOpenList returns the beneficiary's open list without creating one.
func (s *Service) FindOpenList(ctx context.Context, beneficiaryID string) (*models.PurchaseList, error) {
	list, err := s.store.FindOpenList(ctx, beneficiaryID)
	if err != nil {
		return nil, notFoundOr(err, "open list", beneficiaryID, "find open list")
	}
	return list, nil
}

// EnsureOpenList returns the beneficiary's open list, creating it when none
// exists. A new list's ceiling is frozen from the stipend stored at this
// moment. Calling it again returns the same list.
func (s *Service) EnsureOpenList(ctx context.Context, b *models.Beneficiary) (*models.PurchaseList, error) {
	if b == nil {
		return nil, &NotFoundError{Kind: "beneficiary profile"}
	}

	var (
		list    *models.PurchaseList
		created bool
	)
	err := s.store.WithTx(ctx, func(ctx context.Context, r storage.Repository) error {
		existing, err := r.FindOpenList(ctx, b.ID)
		if err == nil {
			list = existing
			return nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return &PersistenceError{Op: "find open list", Err: err}
		}

		current, err := r.GetBeneficiary(ctx, b.ID)
		if err != nil {
			return notFoundOr(err, "beneficiary", b.ID, "get beneficiary")
		}

		list = &models.PurchaseList{
			BeneficiaryID: current.ID,
			Status:        models.ListStatusOpen,
			Ceiling:       calculator.PurchaseCeiling(current.MonthlyStipend),
		}
		if err := r.CreatePurchaseList(ctx, list); err != nil {
			return &PersistenceError{Op: "create purchase list", Err: err}
		}
		created = true
		return nil
	})
	if err != nil {
		s.record(ctx, OpEnsure, err, "beneficiary_id", b.ID)
		return nil, err
	}

	if created {
		s.metrics.ListCreated()
		s.logger.InfoContext(ctx, "Purchase list opened",
			"beneficiary_id", b.ID,
			"list_id", list.ID,
			"ceiling", calculator.Format(list.Ceiling),
		)
	}
	return list, nil
}

// ComputeTotal sums quantity × captured price over the list's entries.
// It is derived from current entries on every call and never stored.
func (s *Service) ComputeTotal(ctx context.Context, listID string) (decimal.Decimal, error) {
	if _, err := s.store.GetPurchaseList(ctx, listID); err != nil {
		return decimal.Zero, notFoundOr(err, "purchase list", listID, "get purchase list")
	}
	total, _, err := computeTotal(ctx, s.store, listID)
	return total, err
}

// View returns a list with entries, total and headroom.
func (s *Service) View(ctx context.Context, listID string) (*View, error) {
	return buildView(ctx, s.store, listID)
}

// ViewFor returns the list if it belongs to b.
func (s *Service) ViewFor(ctx context.Context, b *models.Beneficiary, listID string) (*View, error) {
	view, err := buildView(ctx, s.store, listID)
	if err != nil {
		return nil, err
	}
	if b == nil || view.List.BeneficiaryID != b.ID {
		return nil, &UnauthorizedError{BeneficiaryID: beneficiaryID(b), Resource: "purchase list " + listID}
	}
	return view, nil
}

// AddProduct puts quantity units of a product on the beneficiary's open
// list, creating the list if needed.
//
// A product not yet on the list is captured at today's price. A product
// already on the list is incremented and costs its originally captured
// price. The change is rejected with a *LimitExceededError if the new total
// would exceed the list's ceiling.
func (s *Service) AddProduct(ctx context.Context, b *models.Beneficiary, productID string, quantity int) (*View, error) {
	if err := validateQuantity(quantity); err != nil {
		s.record(ctx, OpAdd, err, "product_id", productID)
		return nil, err
	}

	var (
		list *models.PurchaseList
		view *View
		err  error
	)
	// The list may be closed between opening it and adding to it; one retry
	// lands the product on the list opened in its place.
	for attempt := 0; attempt < 2; attempt++ {
		list, err = s.EnsureOpenList(ctx, b)
		if err != nil {
			return nil, err
		}
		view, err = s.addToList(ctx, b, list.ID, productID, quantity)
		if !errors.Is(err, errListClosed) {
			break
		}
	}
	s.record(ctx, OpAdd, err, "beneficiary_id", b.ID, "list_id", list.ID, "product_id", productID, "quantity", quantity)
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *Service) addToList(ctx context.Context, b *models.Beneficiary, listID, productID string, quantity int) (*View, error) {
	var view *View
	err := s.store.WithTx(ctx, func(ctx context.Context, r storage.Repository) error {
		list, err := loadOwnedOpenList(ctx, r, b, listID)
		if err != nil {
			return err
		}

		product, err := r.GetProduct(ctx, productID)
		if err != nil {
			return notFoundOr(err, "product", productID, "get product")
		}
		if !product.Available {
			return &ValidationError{Field: "product", Reason: product.Name + " is not available"}
		}

		total, _, err := computeTotal(ctx, r, list.ID)
		if err != nil {
			return err
		}

		entry, err := r.FindListEntry(ctx, list.ID, product.ID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return &PersistenceError{Op: "find list entry", Err: err}
		}

		var added decimal.Decimal
		if entry == nil {
			added = calculator.Subtotal(quantity, product.UnitPrice)
		} else {
			if quantity > MaxQuantity-entry.Quantity {
				return &ValidationError{Field: "quantity", Reason: fmt.Sprintf("entry would exceed %d units", MaxQuantity)}
			}
			added = calculator.IncrementalCost(entry.Quantity, quantity, entry.UnitPrice)
		}

		if attempted := total.Add(added); calculator.Exceeds(attempted, list.Ceiling) {
			return &LimitExceededError{
				Ceiling:   list.Ceiling,
				Total:     total,
				Attempted: attempted,
				Product:   product.Name,
			}
		}

		if entry == nil {
			entry = &models.ListEntry{
				ListID:    list.ID,
				ProductID: product.ID,
				Quantity:  quantity,
				UnitPrice: product.UnitPrice,
			}
			if err := r.CreateListEntry(ctx, entry); err != nil {
				return &PersistenceError{Op: "create list entry", Err: err}
			}
		} else if err := r.UpdateListEntryQuantity(ctx, entry.ID, entry.Quantity+quantity); err != nil {
			return &PersistenceError{Op: "update list entry", Err: err}
		}

		if err := r.TouchPurchaseList(ctx, list.ID); err != nil {
			return &PersistenceError{Op: "touch purchase list", Err: err}
		}

		view, err = buildView(ctx, r, list.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// UpdateQuantity sets an entry's quantity, rejecting the change with a
// *LimitExceededError if the list total would exceed its ceiling.
func (s *Service) UpdateQuantity(ctx context.Context, b *models.Beneficiary, entryID string, quantity int) (*View, error) {
	if err := validateQuantity(quantity); err != nil {
		s.record(ctx, OpUpdate, err, "entry_id", entryID)
		return nil, err
	}

	var view *View
	err := s.store.WithTx(ctx, func(ctx context.Context, r storage.Repository) error {
		entry, err := r.GetListEntry(ctx, entryID)
		if err != nil {
			return notFoundOr(err, "list entry", entryID, "get list entry")
		}

		list, err := loadOwnedOpenList(ctx, r, b, entry.ListID)
		if err != nil {
			return err
		}

		total, _, err := computeTotal(ctx, r, list.ID)
		if err != nil {
			return err
		}

		attempted := total.Sub(entry.Subtotal()).Add(calculator.Subtotal(quantity, entry.UnitPrice))
		if calculator.Exceeds(attempted, list.Ceiling) {
			return &LimitExceededError{
				Ceiling:   list.Ceiling,
				Total:     total,
				Attempted: attempted,
				Product:   entry.ProductName,
			}
		}

		if err := r.UpdateListEntryQuantity(ctx, entry.ID, quantity); err != nil {
			return &PersistenceError{Op: "update list entry", Err: err}
		}
		if err := r.TouchPurchaseList(ctx, list.ID); err != nil {
			return &PersistenceError{Op: "touch purchase list", Err: err}
		}

		view, err = buildView(ctx, r, list.ID)
		return err
	})
	s.record(ctx, OpUpdate, err, "beneficiary_id", beneficiaryID(b), "entry_id", entryID, "quantity", quantity)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// RemoveEntry deletes an entry from the caller's open list. Removal only
// lowers the total, so no limit check applies.
func (s *Service) RemoveEntry(ctx context.Context, b *models.Beneficiary, entryID string) (*View, error) {
	var view *View
	err := s.store.WithTx(ctx, func(ctx context.Context, r storage.Repository) error {
		entry, err := r.GetListEntry(ctx, entryID)
		if err != nil {
			return notFoundOr(err, "list entry", entryID, "get list entry")
		}

		list, err := loadOwnedOpenList(ctx, r, b, entry.ListID)
		if err != nil {
			return err
		}

		if err := r.DeleteListEntry(ctx, entry.ID); err != nil {
			return &PersistenceError{Op: "delete list entry", Err: err}
		}
		if err := r.TouchPurchaseList(ctx, list.ID); err != nil {
			return &PersistenceError{Op: "touch purchase list", Err: err}
		}

		view, err = buildView(ctx, r, list.ID)
		return err
	})
	s.record(ctx, OpRemove, err, "beneficiary_id", beneficiaryID(b), "entry_id", entryID)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// SetStatus moves an open list to finalized or cancelled. Closed lists
// cannot change status again.
func (s *Service) SetStatus(ctx context.Context, listID string, status models.ListStatus) (*models.PurchaseList, error) {
	if !status.Valid() || status == models.ListStatusOpen {
		err := &ValidationError{Field: "status", Reason: "must be finalized or cancelled"}
		s.record(ctx, OpStatus, err, "list_id", listID)
		return nil, err
	}

	var list *models.PurchaseList
	err := s.store.WithTx(ctx, func(ctx context.Context, r storage.Repository) error {
		current, err := r.GetPurchaseList(ctx, listID)
		if err != nil {
			return notFoundOr(err, "purchase list", listID, "get purchase list")
		}
		if !current.IsOpen() {
			return &ValidationError{Field: "list", Reason: "list is already " + string(current.Status)}
		}
		if err := r.UpdatePurchaseListStatus(ctx, listID, status); err != nil {
			return &PersistenceError{Op: "update purchase list status", Err: err}
		}
		list, err = r.GetPurchaseList(ctx, listID)
		if err != nil {
			return &PersistenceError{Op: "get purchase list", Err: err}
		}
		return nil
	})
	s.record(ctx, OpStatus, err, "list_id", listID, "status", string(status))
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ListSummaries lists purchase lists with their totals.
func (s *Service) ListSummaries(ctx context.Context, filter storage.ListFilter) ([]Summary, error) {
	lists, err := s.store.ListPurchaseLists(ctx, filter)
	if err != nil {
		return nil, &PersistenceError{Op: "list purchase lists", Err: err}
	}

	out := make([]Summary, 0, len(lists))
	for _, l := range lists {
		total, entries, err := computeTotal(ctx, s.store, l.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, Summary{
			List:       l,
			EntryCount: len(entries),
			Total:      total,
			Headroom:   calculator.Headroom(l.Ceiling, total),
		})
	}
	return out, nil
}

// loadOwnedOpenList loads a list inside the current transaction and checks
// that b owns it and that it still accepts changes.
func loadOwnedOpenList(ctx context.Context, r storage.Repository, b *models.Beneficiary, listID string) (*models.PurchaseList, error) {
	list, err := r.GetPurchaseList(ctx, listID)
	if err != nil {
		return nil, notFoundOr(err, "purchase list", listID, "get purchase list")
	}
	if b == nil || list.BeneficiaryID != b.ID {
		return nil, &UnauthorizedError{BeneficiaryID: beneficiaryID(b), Resource: "purchase list " + listID}
	}
	if !list.IsOpen() {
		return nil, &ValidationError{Field: "list", Reason: "list is " + string(list.Status), err: errListClosed}
	}
	return list, nil
}

func computeTotal(ctx context.Context, r storage.Repository, listID string) (decimal.Decimal, []*models.ListEntry, error) {
	entries, err := r.ListEntries(ctx, listID)
	if err != nil {
		return decimal.Zero, nil, &PersistenceError{Op: "list entries", Err: err}
	}
	lines := make([]calculator.Line, len(entries))
	for i, e := range entries {
		lines[i] = calculator.Line{Quantity: e.Quantity, UnitPrice: e.UnitPrice}
	}
	return calculator.Total(lines), entries, nil
}

func buildView(ctx context.Context, r storage.Repository, listID string) (*View, error) {
	list, err := r.GetPurchaseList(ctx, listID)
	if err != nil {
		return nil, notFoundOr(err, "purchase list", listID, "get purchase list")
	}
	total, entries, err := computeTotal(ctx, r, listID)
	if err != nil {
		return nil, err
	}
	return &View{
		List:     list,
		Entries:  entries,
		Total:    total,
		Headroom: calculator.Headroom(list.Ceiling, total),
	}, nil
}

// MaxQuantity bounds the units of one product on a list.
const MaxQuantity = 10000

func validateQuantity(q int) error {
	if q < 1 {
		return &ValidationError{Field: "quantity", Reason: "must be a positive integer"}
	}
	if q > MaxQuantity {
		return &ValidationError{Field: "quantity", Reason: fmt.Sprintf("must be at most %d", MaxQuantity)}
	}
	return nil
}

// notFoundOr converts storage.ErrNotFound into a *NotFoundError and any
// other failure into a *PersistenceError.
func notFoundOr(err error, kind, id, op string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return &NotFoundError{Kind: kind, ID: id}
	}
	return &PersistenceError{Op: op, Err: err}
}

func beneficiaryID(b *models.Beneficiary) string {
	if b == nil {
		return ""
	}
	return b.ID
}

// record logs and counts the outcome of a mutation.
func (s *Service) record(ctx context.Context, op string, err error, attrs ...any) {
	outcome := Outcome(err)
	s.metrics.ListOperation(op, outcome)

	attrs = append(attrs, "operation", op)
	switch outcome {
	case metrics.OutcomeOK:
		s.logger.InfoContext(ctx, "List updated", attrs...)
	case metrics.OutcomeError:
		s.logger.ErrorContext(ctx, "List operation failed", append(attrs, "error", err)...)
	default:
		s.logger.WarnContext(ctx, "List operation rejected", append(attrs, "outcome", outcome, "error", err)...)
	}
}

// Outcome classifies err for metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrLimitExceeded):
		return metrics.OutcomeRejected
	case errors.Is(err, ErrValidation):
		return metrics.OutcomeInvalid
	case errors.Is(err, ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, ErrUnauthorized):
		return metrics.OutcomeForbidden
	default:
		return metrics.OutcomeError
	}
}
