package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const AdminServiceName = "feira.v1.AdminService"

const (
	AdminServiceCreateBeneficiaryProcedure = "/feira.v1.AdminService/CreateBeneficiary"
	AdminServiceUpdateBeneficiaryProcedure = "/feira.v1.AdminService/UpdateBeneficiary"
	AdminServiceDeleteBeneficiaryProcedure = "/feira.v1.AdminService/DeleteBeneficiary"
	AdminServiceListBeneficiariesProcedure = "/feira.v1.AdminService/ListBeneficiaries"
	AdminServiceCreateProductProcedure     = "/feira.v1.AdminService/CreateProduct"
	AdminServiceUpdateProductProcedure     = "/feira.v1.AdminService/UpdateProduct"
	AdminServiceDeleteProductProcedure     = "/feira.v1.AdminService/DeleteProduct"
	AdminServiceListAllProductsProcedure   = "/feira.v1.AdminService/ListAllProducts"
	AdminServiceListPurchaseListsProcedure = "/feira.v1.AdminService/ListPurchaseLists"
	AdminServiceGetPurchaseListProcedure   = "/feira.v1.AdminService/GetPurchaseList"
	AdminServiceSetListStatusProcedure     = "/feira.v1.AdminService/SetListStatus"
)

// BeneficiaryInput holds the editable fields of a beneficiary.
// An empty MonthlyStipend clears the stipend.
type BeneficiaryInput struct {
	Name           string `json:"name" validate:"required,max=200"`
	Email          string `json:"email" validate:"required,email"`
	MonthlyStipend string `json:"monthly_stipend,omitempty"`
	IsAdmin        bool   `json:"is_admin"`
}

type CreateBeneficiaryRequest struct {
	BeneficiaryInput
}

type CreateBeneficiaryResponse struct {
	Beneficiary *Beneficiary `json:"beneficiary"`
}

type UpdateBeneficiaryRequest struct {
	ID string `json:"id"`
	BeneficiaryInput
}

type UpdateBeneficiaryResponse struct {
	Beneficiary *Beneficiary `json:"beneficiary"`
}

type DeleteBeneficiaryRequest struct {
	ID string `json:"id"`
}

type DeleteBeneficiaryResponse struct{}

type ListBeneficiariesRequest struct{}

type ListBeneficiariesResponse struct {
	Beneficiaries []*Beneficiary `json:"beneficiaries"`
}

// ProductInput holds the editable fields of a product.
type ProductInput struct {
	Name      string `json:"name" validate:"required,max=200"`
	UnitPrice string `json:"unit_price" validate:"required"`
	Unit      string `json:"unit,omitempty" validate:"max=32"`
	Available bool   `json:"available"`
}

type CreateProductRequest struct {
	ProductInput
}

type CreateProductResponse struct {
	Product *Product `json:"product"`
}

type UpdateProductRequest struct {
	ID string `json:"id"`
	ProductInput
}

type UpdateProductResponse struct {
	Product *Product `json:"product"`
}

type DeleteProductRequest struct {
	ID string `json:"id"`
}

type DeleteProductResponse struct{}

type ListAllProductsRequest struct{}

type ListAllProductsResponse struct {
	Products []*Product `json:"products"`
}

// ListPurchaseListsRequest filters the overview. Empty fields match all lists.
type ListPurchaseListsRequest struct {
	BeneficiaryID string `json:"beneficiary_id,omitempty"`
	Status        string `json:"status,omitempty"`
}

type ListPurchaseListsResponse struct {
	Lists []*PurchaseList `json:"lists"`
}

type GetPurchaseListRequest struct {
	ID string `json:"id"`
}

type GetPurchaseListResponse struct {
	List *PurchaseList `json:"list"`
}

type SetListStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type SetListStatusResponse struct {
	List *PurchaseList `json:"list"`
}

// AdminServiceHandler is implemented by the server.
type AdminServiceHandler interface {
	CreateBeneficiary(context.Context, *connect.Request[CreateBeneficiaryRequest]) (*connect.Response[CreateBeneficiaryResponse], error)
	UpdateBeneficiary(context.Context, *connect.Request[UpdateBeneficiaryRequest]) (*connect.Response[UpdateBeneficiaryResponse], error)
	DeleteBeneficiary(context.Context, *connect.Request[DeleteBeneficiaryRequest]) (*connect.Response[DeleteBeneficiaryResponse], error)
	ListBeneficiaries(context.Context, *connect.Request[ListBeneficiariesRequest]) (*connect.Response[ListBeneficiariesResponse], error)
	CreateProduct(context.Context, *connect.Request[CreateProductRequest]) (*connect.Response[CreateProductResponse], error)
	UpdateProduct(context.Context, *connect.Request[UpdateProductRequest]) (*connect.Response[UpdateProductResponse], error)
	DeleteProduct(context.Context, *connect.Request[DeleteProductRequest]) (*connect.Response[DeleteProductResponse], error)
	ListAllProducts(context.Context, *connect.Request[ListAllProductsRequest]) (*connect.Response[ListAllProductsResponse], error)
	ListPurchaseLists(context.Context, *connect.Request[ListPurchaseListsRequest]) (*connect.Response[ListPurchaseListsResponse], error)
	GetPurchaseList(context.Context, *connect.Request[GetPurchaseListRequest]) (*connect.Response[GetPurchaseListResponse], error)
	SetListStatus(context.Context, *connect.Request[SetListStatusRequest]) (*connect.Response[SetListStatusResponse], error)
}

// NewAdminServiceHandler builds an HTTP handler for svc. It returns the path
// prefix to mount it on.
func NewAdminServiceHandler(svc AdminServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	handlers := map[string]http.Handler{
		AdminServiceCreateBeneficiaryProcedure: connect.NewUnaryHandler(AdminServiceCreateBeneficiaryProcedure, svc.CreateBeneficiary, opts...),
		AdminServiceUpdateBeneficiaryProcedure: connect.NewUnaryHandler(AdminServiceUpdateBeneficiaryProcedure, svc.UpdateBeneficiary, opts...),
		AdminServiceDeleteBeneficiaryProcedure: connect.NewUnaryHandler(AdminServiceDeleteBeneficiaryProcedure, svc.DeleteBeneficiary, opts...),
		AdminServiceListBeneficiariesProcedure: connect.NewUnaryHandler(AdminServiceListBeneficiariesProcedure, svc.ListBeneficiaries, opts...),
		AdminServiceCreateProductProcedure:     connect.NewUnaryHandler(AdminServiceCreateProductProcedure, svc.CreateProduct, opts...),
		AdminServiceUpdateProductProcedure:     connect.NewUnaryHandler(AdminServiceUpdateProductProcedure, svc.UpdateProduct, opts...),
		AdminServiceDeleteProductProcedure:     connect.NewUnaryHandler(AdminServiceDeleteProductProcedure, svc.DeleteProduct, opts...),
		AdminServiceListAllProductsProcedure:   connect.NewUnaryHandler(AdminServiceListAllProductsProcedure, svc.ListAllProducts, opts...),
		AdminServiceListPurchaseListsProcedure: connect.NewUnaryHandler(AdminServiceListPurchaseListsProcedure, svc.ListPurchaseLists, opts...),
		AdminServiceGetPurchaseListProcedure:   connect.NewUnaryHandler(AdminServiceGetPurchaseListProcedure, svc.GetPurchaseList, opts...),
		AdminServiceSetListStatusProcedure:     connect.NewUnaryHandler(AdminServiceSetListStatusProcedure, svc.SetListStatus, opts...),
	}

	return "/" + AdminServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// AdminServiceClient calls AdminService over HTTP.
type AdminServiceClient struct {
	createBeneficiary *connect.Client[CreateBeneficiaryRequest, CreateBeneficiaryResponse]
	updateBeneficiary *connect.Client[UpdateBeneficiaryRequest, UpdateBeneficiaryResponse]
	deleteBeneficiary *connect.Client[DeleteBeneficiaryRequest, DeleteBeneficiaryResponse]
	listBeneficiaries *connect.Client[ListBeneficiariesRequest, ListBeneficiariesResponse]
	createProduct     *connect.Client[CreateProductRequest, CreateProductResponse]
	updateProduct     *connect.Client[UpdateProductRequest, UpdateProductResponse]
	deleteProduct     *connect.Client[DeleteProductRequest, DeleteProductResponse]
	listAllProducts   *connect.Client[ListAllProductsRequest, ListAllProductsResponse]
	listPurchaseLists *connect.Client[ListPurchaseListsRequest, ListPurchaseListsResponse]
	getPurchaseList   *connect.Client[GetPurchaseListRequest, GetPurchaseListResponse]
	setListStatus     *connect.Client[SetListStatusRequest, SetListStatusResponse]
}

// NewAdminServiceClient creates a client for the service at baseURL.
func NewAdminServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AdminServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &AdminServiceClient{
		createBeneficiary: connect.NewClient[CreateBeneficiaryRequest, CreateBeneficiaryResponse](httpClient, baseURL+AdminServiceCreateBeneficiaryProcedure, opts...),
		updateBeneficiary: connect.NewClient[UpdateBeneficiaryRequest, UpdateBeneficiaryResponse](httpClient, baseURL+AdminServiceUpdateBeneficiaryProcedure, opts...),
		deleteBeneficiary: connect.NewClient[DeleteBeneficiaryRequest, DeleteBeneficiaryResponse](httpClient, baseURL+AdminServiceDeleteBeneficiaryProcedure, opts...),
		listBeneficiaries: connect.NewClient[ListBeneficiariesRequest, ListBeneficiariesResponse](httpClient, baseURL+AdminServiceListBeneficiariesProcedure, opts...),
		createProduct:     connect.NewClient[CreateProductRequest, CreateProductResponse](httpClient, baseURL+AdminServiceCreateProductProcedure, opts...),
		updateProduct:     connect.NewClient[UpdateProductRequest, UpdateProductResponse](httpClient, baseURL+AdminServiceUpdateProductProcedure, opts...),
		deleteProduct:     connect.NewClient[DeleteProductRequest, DeleteProductResponse](httpClient, baseURL+AdminServiceDeleteProductProcedure, opts...),
		listAllProducts:   connect.NewClient[ListAllProductsRequest, ListAllProductsResponse](httpClient, baseURL+AdminServiceListAllProductsProcedure, opts...),
		listPurchaseLists: connect.NewClient[ListPurchaseListsRequest, ListPurchaseListsResponse](httpClient, baseURL+AdminServiceListPurchaseListsProcedure, opts...),
		getPurchaseList:   connect.NewClient[GetPurchaseListRequest, GetPurchaseListResponse](httpClient, baseURL+AdminServiceGetPurchaseListProcedure, opts...),
		setListStatus:     connect.NewClient[SetListStatusRequest, SetListStatusResponse](httpClient, baseURL+AdminServiceSetListStatusProcedure, opts...),
	}
}

func (c *AdminServiceClient) CreateBeneficiary(ctx context.Context, req *connect.Request[CreateBeneficiaryRequest]) (*connect.Response[CreateBeneficiaryResponse], error) {
	return c.createBeneficiary.CallUnary(ctx, req)
}

func (c *AdminServiceClient) UpdateBeneficiary(ctx context.Context, req *connect.Request[UpdateBeneficiaryRequest]) (*connect.Response[UpdateBeneficiaryResponse], error) {
	return c.updateBeneficiary.CallUnary(ctx, req)
}

func (c *AdminServiceClient) DeleteBeneficiary(ctx context.Context, req *connect.Request[DeleteBeneficiaryRequest]) (*connect.Response[DeleteBeneficiaryResponse], error) {
	return c.deleteBeneficiary.CallUnary(ctx, req)
}

func (c *AdminServiceClient) ListBeneficiaries(ctx context.Context, req *connect.Request[ListBeneficiariesRequest]) (*connect.Response[ListBeneficiariesResponse], error) {
	return c.listBeneficiaries.CallUnary(ctx, req)
}

func (c *AdminServiceClient) CreateProduct(ctx context.Context, req *connect.Request[CreateProductRequest]) (*connect.Response[CreateProductResponse], error) {
	return c.createProduct.CallUnary(ctx, req)
}

func (c *AdminServiceClient) UpdateProduct(ctx context.Context, req *connect.Request[UpdateProductRequest]) (*connect.Response[UpdateProductResponse], error) {
	return c.updateProduct.CallUnary(ctx, req)
}

func (c *AdminServiceClient) DeleteProduct(ctx context.Context, req *connect.Request[DeleteProductRequest]) (*connect.Response[DeleteProductResponse], error) {
	return c.deleteProduct.CallUnary(ctx, req)
}

func (c *AdminServiceClient) ListAllProducts(ctx context.Context, req *connect.Request[ListAllProductsRequest]) (*connect.Response[ListAllProductsResponse], error) {
	return c.listAllProducts.CallUnary(ctx, req)
}

func (c *AdminServiceClient) ListPurchaseLists(ctx context.Context, req *connect.Request[ListPurchaseListsRequest]) (*connect.Response[ListPurchaseListsResponse], error) {
	return c.listPurchaseLists.CallUnary(ctx, req)
}

func (c *AdminServiceClient) GetPurchaseList(ctx context.Context, req *connect.Request[GetPurchaseListRequest]) (*connect.Response[GetPurchaseListResponse], error) {
	return c.getPurchaseList.CallUnary(ctx, req)
}

func (c *AdminServiceClient) SetListStatus(ctx context.Context, req *connect.Request[SetListStatusRequest]) (*connect.Response[SetListStatusResponse], error) {
	return c.setListStatus.CallUnary(ctx, req)
}
