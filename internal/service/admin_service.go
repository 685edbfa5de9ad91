package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/feira/internal/auth"
	"github.com/mmynk/feira/internal/lists"
	"github.com/mmynk/feira/internal/middleware"
	"github.com/mmynk/feira/internal/models"
	"github.com/mmynk/feira/internal/storage"
	"github.com/mmynk/feira/pkg/api"
)

// AdminService implements catalog and beneficiary management and the
// purchase list overview. Every call requires an administrator.
type AdminService struct {
	store  storage.Store
	lists  *lists.Service
	logger *slog.Logger
}

var _ api.AdminServiceHandler = (*AdminService)(nil)

// NewAdminService creates an AdminService.
func NewAdminService(store storage.Store, listService *lists.Service, logger *slog.Logger) *AdminService {
	return &AdminService{store: store, lists: listService, logger: logger}
}

// CreateBeneficiary registers a new beneficiary.
func (s *AdminService) CreateBeneficiary(ctx context.Context, req *connect.Request[api.CreateBeneficiaryRequest]) (*connect.Response[api.CreateBeneficiaryResponse], error) {
	admin, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	b := &models.Beneficiary{}
	if err := applyBeneficiaryInput(b, req.Msg.BeneficiaryInput); err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.CreateBeneficiary(ctx, b); err != nil {
		s.logger.WarnContext(ctx, "CreateBeneficiary failed", "email", b.Email, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.InfoContext(ctx, "Beneficiary created", "beneficiary_id", b.ID, "by", admin.ID)
	return connect.NewResponse(&api.CreateBeneficiaryResponse{Beneficiary: toAPIBeneficiary(b)}), nil
}

// UpdateBeneficiary overwrites a beneficiary's editable fields. Open lists
// keep the ceiling they were created with.
func (s *AdminService) UpdateBeneficiary(ctx context.Context, req *connect.Request[api.UpdateBeneficiaryRequest]) (*connect.Response[api.UpdateBeneficiaryResponse], error) {
	admin, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	b, err := s.store.GetBeneficiary(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := applyBeneficiaryInput(b, req.Msg.BeneficiaryInput); err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.UpdateBeneficiary(ctx, b); err != nil {
		s.logger.WarnContext(ctx, "UpdateBeneficiary failed", "beneficiary_id", b.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.InfoContext(ctx, "Beneficiary updated", "beneficiary_id", b.ID, "by", admin.ID)
	return connect.NewResponse(&api.UpdateBeneficiaryResponse{Beneficiary: toAPIBeneficiary(b)}), nil
}

// DeleteBeneficiary removes a beneficiary. Beneficiaries with purchase
// lists cannot be deleted.
func (s *AdminService) DeleteBeneficiary(ctx context.Context, req *connect.Request[api.DeleteBeneficiaryRequest]) (*connect.Response[api.DeleteBeneficiaryResponse], error) {
	admin, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteBeneficiary(ctx, req.Msg.ID); err != nil {
		s.logger.WarnContext(ctx, "DeleteBeneficiary failed", "beneficiary_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.InfoContext(ctx, "Beneficiary deleted", "beneficiary_id", req.Msg.ID, "by", admin.ID)
	return connect.NewResponse(&api.DeleteBeneficiaryResponse{}), nil
}

func (s *AdminService) ListBeneficiaries(ctx context.Context, req *connect.Request[api.ListBeneficiariesRequest]) (*connect.Response[api.ListBeneficiariesResponse], error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	beneficiaries, err := s.store.ListBeneficiaries(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "ListBeneficiaries failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Beneficiary, len(beneficiaries))
	for i, b := range beneficiaries {
		out[i] = toAPIBeneficiary(b)
	}
	return connect.NewResponse(&api.ListBeneficiariesResponse{Beneficiaries: out}), nil
}

// CreateProduct adds a product to the catalog.
func (s *AdminService) CreateProduct(ctx context.Context, req *connect.Request[api.CreateProductRequest]) (*connect.Response[api.CreateProductResponse], error) {
	admin, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	p := &models.Product{}
	if err := applyProductInput(p, req.Msg.ProductInput); err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.CreateProduct(ctx, p); err != nil {
		s.logger.ErrorContext(ctx, "CreateProduct failed", "name", p.Name, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.InfoContext(ctx, "Product created", "product_id", p.ID, "price", p.UnitPrice.StringFixed(2), "by", admin.ID)
	return connect.NewResponse(&api.CreateProductResponse{Product: toAPIProduct(p)}), nil
}

// UpdateProduct overwrites a product's editable fields. Entries already on
// lists keep the price they captured.
func (s *AdminService) UpdateProduct(ctx context.Context, req *connect.Request[api.UpdateProductRequest]) (*connect.Response[api.UpdateProductResponse], error) {
	admin, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.store.GetProduct(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := applyProductInput(p, req.Msg.ProductInput); err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.UpdateProduct(ctx, p); err != nil {
		s.logger.ErrorContext(ctx, "UpdateProduct failed", "product_id", p.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.InfoContext(ctx, "Product updated", "product_id", p.ID, "by", admin.ID)
	return connect.NewResponse(&api.UpdateProductResponse{Product: toAPIProduct(p)}), nil
}

// DeleteProduct removes a product that no list entry references.
func (s *AdminService) DeleteProduct(ctx context.Context, req *connect.Request[api.DeleteProductRequest]) (*connect.Response[api.DeleteProductResponse], error) {
	admin, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteProduct(ctx, req.Msg.ID); err != nil {
		s.logger.WarnContext(ctx, "DeleteProduct failed", "product_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.InfoContext(ctx, "Product deleted", "product_id", req.Msg.ID, "by", admin.ID)
	return connect.NewResponse(&api.DeleteProductResponse{}), nil
}

// ListAllProducts returns the whole catalog, unavailable products included.
func (s *AdminService) ListAllProducts(ctx context.Context, req *connect.Request[api.ListAllProductsRequest]) (*connect.Response[api.ListAllProductsResponse], error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	products, err := s.store.ListProducts(ctx, false)
	if err != nil {
		s.logger.ErrorContext(ctx, "ListAllProducts failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ListAllProductsResponse{Products: toAPIProducts(products)}), nil
}

// ListPurchaseLists returns purchase lists newest first with their totals.
func (s *AdminService) ListPurchaseLists(ctx context.Context, req *connect.Request[api.ListPurchaseListsRequest]) (*connect.Response[api.ListPurchaseListsResponse], error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	filter := storage.ListFilter{BeneficiaryID: req.Msg.BeneficiaryID}
	if req.Msg.Status != "" {
		status := models.ListStatus(req.Msg.Status)
		if !status.Valid() {
			return nil, toConnectError(&lists.ValidationError{Field: "status", Reason: "unknown status " + req.Msg.Status})
		}
		filter.Status = status
	}

	summaries, err := s.lists.ListSummaries(ctx, filter)
	if err != nil {
		s.logger.ErrorContext(ctx, "ListPurchaseLists failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.PurchaseList, len(summaries))
	for i, sum := range summaries {
		out[i] = toAPISummary(sum)
	}
	return connect.NewResponse(&api.ListPurchaseListsResponse{Lists: out}), nil
}

// GetPurchaseList returns any list with its entries.
func (s *AdminService) GetPurchaseList(ctx context.Context, req *connect.Request[api.GetPurchaseListRequest]) (*connect.Response[api.GetPurchaseListResponse], error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	view, err := s.lists.View(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetPurchaseListResponse{List: toAPIView(view)}), nil
}

// SetListStatus finalizes or cancels an open list.
func (s *AdminService) SetListStatus(ctx context.Context, req *connect.Request[api.SetListStatusRequest]) (*connect.Response[api.SetListStatusResponse], error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	list, err := s.lists.SetStatus(ctx, req.Msg.ID, models.ListStatus(req.Msg.Status))
	if err != nil {
		return nil, toConnectError(err)
	}

	view, err := s.lists.View(ctx, list.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.SetListStatusResponse{List: toAPIView(view)}), nil
}

func requireAdmin(ctx context.Context) (*models.Beneficiary, error) {
	b := middleware.GetBeneficiary(ctx)
	if b == nil || !b.IsAdmin {
		return nil, toConnectError(errNotAdmin)
	}
	return b, nil
}

func applyBeneficiaryInput(b *models.Beneficiary, in api.BeneficiaryInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = auth.NormalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return err
	}
	stipend, err := parseStipend(in.MonthlyStipend)
	if err != nil {
		return err
	}

	b.Name = in.Name
	b.Email = in.Email
	b.MonthlyStipend = stipend
	b.IsAdmin = in.IsAdmin
	return nil
}

func applyProductInput(p *models.Product, in api.ProductInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Unit = strings.TrimSpace(in.Unit)
	if err := validateInput(in); err != nil {
		return err
	}
	price, err := parseAmount("unit_price", in.UnitPrice)
	if err != nil {
		return err
	}

	p.Name = in.Name
	p.UnitPrice = price
	p.Unit = in.Unit
	p.Available = in.Available
	return nil
}
