package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/feira/internal/lists"
	"github.com/mmynk/feira/internal/middleware"
	"github.com/mmynk/feira/internal/models"
	"github.com/mmynk/feira/internal/storage"
	"github.com/mmynk/feira/pkg/api"
)

// ShoppingService implements the beneficiary-facing RPCs: browsing the
// catalog and editing the caller's own open list.
type ShoppingService struct {
	store  storage.Store
	lists  *lists.Service
	logger *slog.Logger
}

var _ api.ShoppingServiceHandler = (*ShoppingService)(nil)

// NewShoppingService creates a ShoppingService.
func NewShoppingService(store storage.Store, listService *lists.Service, logger *slog.Logger) *ShoppingService {
	return &ShoppingService{store: store, lists: listService, logger: logger}
}

// ListProducts returns the available catalog together with the caller's
// open list. Opening the catalog is when a list gets created.
func (s *ShoppingService) ListProducts(ctx context.Context, req *connect.Request[api.ListProductsRequest]) (*connect.Response[api.ListProductsResponse], error) {
	b, err := beneficiaryFrom(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.lists.EnsureOpenList(ctx, b)
	if err != nil {
		return nil, toConnectError(err)
	}

	products, err := s.store.ListProducts(ctx, true)
	if err != nil {
		s.logger.ErrorContext(ctx, "ListProducts failed", "error", err)
		return nil, toConnectError(err)
	}

	view, err := s.lists.View(ctx, list.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	s.logger.DebugContext(ctx, "ListProducts successful", "beneficiary_id", b.ID, "count", len(products))
	return connect.NewResponse(&api.ListProductsResponse{
		Products: toAPIProducts(products),
		List:     toAPIView(view),
	}), nil
}

// GetMyList returns the caller's open list. It does not create one; the
// response has no list if none is open.
func (s *ShoppingService) GetMyList(ctx context.Context, req *connect.Request[api.GetMyListRequest]) (*connect.Response[api.GetMyListResponse], error) {
	b, err := beneficiaryFrom(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.lists.FindOpenList(ctx, b.ID)
	if errors.Is(err, lists.ErrNotFound) {
		return connect.NewResponse(&api.GetMyListResponse{}), nil
	}
	if err != nil {
		return nil, toConnectError(err)
	}

	view, err := s.lists.ViewFor(ctx, b, list.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetMyListResponse{List: toAPIView(view)}), nil
}

// AddToList adds units of a product to the caller's open list.
func (s *ShoppingService) AddToList(ctx context.Context, req *connect.Request[api.AddToListRequest]) (*connect.Response[api.AddToListResponse], error) {
	b, err := beneficiaryFrom(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.ProductID == "" {
		return nil, toConnectError(&lists.ValidationError{Field: "product_id", Reason: "is required"})
	}

	view, err := s.lists.AddProduct(ctx, b, req.Msg.ProductID, req.Msg.Quantity)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.AddToListResponse{List: toAPIView(view)}), nil
}

// UpdateListEntry sets the quantity of an entry on the caller's open list.
func (s *ShoppingService) UpdateListEntry(ctx context.Context, req *connect.Request[api.UpdateListEntryRequest]) (*connect.Response[api.UpdateListEntryResponse], error) {
	b, err := beneficiaryFrom(ctx)
	if err != nil {
		return nil, err
	}

	view, err := s.lists.UpdateQuantity(ctx, b, req.Msg.EntryID, req.Msg.Quantity)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.UpdateListEntryResponse{List: toAPIView(view)}), nil
}

// RemoveListEntry deletes an entry from the caller's open list.
func (s *ShoppingService) RemoveListEntry(ctx context.Context, req *connect.Request[api.RemoveListEntryRequest]) (*connect.Response[api.RemoveListEntryResponse], error) {
	b, err := beneficiaryFrom(ctx)
	if err != nil {
		return nil, err
	}

	view, err := s.lists.RemoveEntry(ctx, b, req.Msg.EntryID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.RemoveListEntryResponse{List: toAPIView(view)}), nil
}

// beneficiaryFrom returns the caller's profile or a NotFound error.
func beneficiaryFrom(ctx context.Context) (*models.Beneficiary, error) {
	b := middleware.GetBeneficiary(ctx)
	if b == nil {
		return nil, toConnectError(errNoProfile)
	}
	return b, nil
}
