package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const ShoppingServiceName = "feira.v1.ShoppingService"

const (
	ShoppingServiceListProductsProcedure    = "/feira.v1.ShoppingService/ListProducts"
	ShoppingServiceGetMyListProcedure       = "/feira.v1.ShoppingService/GetMyList"
	ShoppingServiceAddToListProcedure       = "/feira.v1.ShoppingService/AddToList"
	ShoppingServiceUpdateListEntryProcedure = "/feira.v1.ShoppingService/UpdateListEntry"
	ShoppingServiceRemoveListEntryProcedure = "/feira.v1.ShoppingService/RemoveListEntry"
)

// CeilingHeader is set on limit-exceeded errors and carries the list's
// ceiling, e.g. "300.00".
const CeilingHeader = "Purchase-Ceiling"

type ListProductsRequest struct{}

// ListProductsResponse carries the available catalog and the caller's open
// list, which is opened by this call if needed.
type ListProductsResponse struct {
	Products []*Product    `json:"products"`
	List     *PurchaseList `json:"list"`
}

type GetMyListRequest struct{}

type GetMyListResponse struct {
	List *PurchaseList `json:"list"`
}

type AddToListRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type AddToListResponse struct {
	List *PurchaseList `json:"list"`
}

type UpdateListEntryRequest struct {
	EntryID  string `json:"entry_id"`
	Quantity int    `json:"quantity"`
}

type UpdateListEntryResponse struct {
	List *PurchaseList `json:"list"`
}

type RemoveListEntryRequest struct {
	EntryID string `json:"entry_id"`
}

type RemoveListEntryResponse struct {
	List *PurchaseList `json:"list"`
}

// ShoppingServiceHandler is implemented by the server.
type ShoppingServiceHandler interface {
	ListProducts(context.Context, *connect.Request[ListProductsRequest]) (*connect.Response[ListProductsResponse], error)
	GetMyList(context.Context, *connect.Request[GetMyListRequest]) (*connect.Response[GetMyListResponse], error)
	AddToList(context.Context, *connect.Request[AddToListRequest]) (*connect.Response[AddToListResponse], error)
	UpdateListEntry(context.Context, *connect.Request[UpdateListEntryRequest]) (*connect.Response[UpdateListEntryResponse], error)
	RemoveListEntry(context.Context, *connect.Request[RemoveListEntryRequest]) (*connect.Response[RemoveListEntryResponse], error)
}

// NewShoppingServiceHandler builds an HTTP handler for svc. It returns the
// path prefix to mount it on.
func NewShoppingServiceHandler(svc ShoppingServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	listProducts := connect.NewUnaryHandler(ShoppingServiceListProductsProcedure, svc.ListProducts, opts...)
	getMyList := connect.NewUnaryHandler(ShoppingServiceGetMyListProcedure, svc.GetMyList, opts...)
	addToList := connect.NewUnaryHandler(ShoppingServiceAddToListProcedure, svc.AddToList, opts...)
	updateListEntry := connect.NewUnaryHandler(ShoppingServiceUpdateListEntryProcedure, svc.UpdateListEntry, opts...)
	removeListEntry := connect.NewUnaryHandler(ShoppingServiceRemoveListEntryProcedure, svc.RemoveListEntry, opts...)

	return "/" + ShoppingServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ShoppingServiceListProductsProcedure:
			listProducts.ServeHTTP(w, r)
		case ShoppingServiceGetMyListProcedure:
			getMyList.ServeHTTP(w, r)
		case ShoppingServiceAddToListProcedure:
			addToList.ServeHTTP(w, r)
		case ShoppingServiceUpdateListEntryProcedure:
			updateListEntry.ServeHTTP(w, r)
		case ShoppingServiceRemoveListEntryProcedure:
			removeListEntry.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// ShoppingServiceClient calls ShoppingService over HTTP.
type ShoppingServiceClient struct {
	listProducts    *connect.Client[ListProductsRequest, ListProductsResponse]
	getMyList       *connect.Client[GetMyListRequest, GetMyListResponse]
	addToList       *connect.Client[AddToListRequest, AddToListResponse]
	updateListEntry *connect.Client[UpdateListEntryRequest, UpdateListEntryResponse]
	removeListEntry *connect.Client[RemoveListEntryRequest, RemoveListEntryResponse]
}

// NewShoppingServiceClient creates a client for the service at baseURL.
func NewShoppingServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ShoppingServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &ShoppingServiceClient{
		listProducts:    connect.NewClient[ListProductsRequest, ListProductsResponse](httpClient, baseURL+ShoppingServiceListProductsProcedure, opts...),
		getMyList:       connect.NewClient[GetMyListRequest, GetMyListResponse](httpClient, baseURL+ShoppingServiceGetMyListProcedure, opts...),
		addToList:       connect.NewClient[AddToListRequest, AddToListResponse](httpClient, baseURL+ShoppingServiceAddToListProcedure, opts...),
		updateListEntry: connect.NewClient[UpdateListEntryRequest, UpdateListEntryResponse](httpClient, baseURL+ShoppingServiceUpdateListEntryProcedure, opts...),
		removeListEntry: connect.NewClient[RemoveListEntryRequest, RemoveListEntryResponse](httpClient, baseURL+ShoppingServiceRemoveListEntryProcedure, opts...),
	}
}

func (c *ShoppingServiceClient) ListProducts(ctx context.Context, req *connect.Request[ListProductsRequest]) (*connect.Response[ListProductsResponse], error) {
	return c.listProducts.CallUnary(ctx, req)
}

func (c *ShoppingServiceClient) GetMyList(ctx context.Context, req *connect.Request[GetMyListRequest]) (*connect.Response[GetMyListResponse], error) {
	return c.getMyList.CallUnary(ctx, req)
}

func (c *ShoppingServiceClient) AddToList(ctx context.Context, req *connect.Request[AddToListRequest]) (*connect.Response[AddToListResponse], error) {
	return c.addToList.CallUnary(ctx, req)
}

func (c *ShoppingServiceClient) UpdateListEntry(ctx context.Context, req *connect.Request[UpdateListEntryRequest]) (*connect.Response[UpdateListEntryResponse], error) {
	return c.updateListEntry.CallUnary(ctx, req)
}

func (c *ShoppingServiceClient) RemoveListEntry(ctx context.Context, req *connect.Request[RemoveListEntryRequest]) (*connect.Response[RemoveListEntryResponse], error) {
	return c.removeListEntry.CallUnary(ctx, req)
}
