package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/feira/internal/auth"
	"github.com/mmynk/feira/internal/config"
	"github.com/mmynk/feira/internal/metrics"
	"github.com/mmynk/feira/internal/storage/sqlite"
	"github.com/mmynk/feira/pkg/api"
)

func newTestServer(t *testing.T) (*httptest.Server, *sqlite.SQLiteStore, *auth.PasswordAuthenticator) {
	t.Helper()

	cfg := &config.Config{
		Port:           "0",
		AllowedOrigin:  "https://feira.example",
		DBPath:         filepath.Join(t.TempDir(), "server.db"),
		JWTSecret:      "server-test-secret-0123456789abcdef",
		TokenTTL:       time.Hour,
		MetricsEnabled: true,
		Env:            "development",
	}

	store, err := sqlite.New(cfg.DBPath)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	authenticator := auth.NewPasswordAuthenticator(store)

	handler := newHandler(cfg, store, deps{
		logger:        logger,
		jwtManager:    auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL),
		authenticator: authenticator,
		metrics:       metrics.New(reg),
		registry:      reg,
	})

	server := httptest.NewServer(handler)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})
	return server, store, authenticator
}

func bearer(token string) connect.ClientOption {
	return connect.WithInterceptors(connect.UnaryInterceptorFunc(func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			req.Header().Set("Authorization", "Bearer "+token)
			return next(ctx, req)
		}
	}))
}

func TestEndToEnd(t *testing.T) {
	server, store, authenticator := newTestServer(t)
	ctx := context.Background()

	seed := auth.AdminSeed{Email: "admin@example.com", Name: "Admin", Password: "admin-password"}
	require.NoError(t, auth.EnsureAdmin(ctx, store, authenticator, seed, slog.New(slog.NewTextHandler(io.Discard, nil))))

	authClient := api.NewAuthServiceClient(http.DefaultClient, server.URL)
	adminLogin, err := authClient.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: seed.Email, Password: seed.Password}))
	require.NoError(t, err)
	admin := api.NewAdminServiceClient(http.DefaultClient, server.URL, bearer(adminLogin.Msg.Token))

	_, err = admin.CreateBeneficiary(ctx, connect.NewRequest(&api.CreateBeneficiaryRequest{
		BeneficiaryInput: api.BeneficiaryInput{Name: "Alice", Email: "alice@example.com", MonthlyStipend: "100.00"},
	}))
	require.NoError(t, err)
	product, err := admin.CreateProduct(ctx, connect.NewRequest(&api.CreateProductRequest{
		ProductInput: api.ProductInput{Name: "Oil", UnitPrice: "50.00", Available: true},
	}))
	require.NoError(t, err)

	reg, err := authClient.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email: "alice@example.com", DisplayName: "Alice", Password: "alice-password",
	}))
	require.NoError(t, err)
	shop := api.NewShoppingServiceClient(http.DefaultClient, server.URL, bearer(reg.Msg.Token))

	catalog, err := shop.ListProducts(ctx, connect.NewRequest(&api.ListProductsRequest{}))
	require.NoError(t, err)
	assert.Equal(t, "300.00", catalog.Msg.List.Ceiling)

	added, err := shop.AddToList(ctx, connect.NewRequest(&api.AddToListRequest{ProductID: product.Msg.Product.ID, Quantity: 5}))
	require.NoError(t, err)
	assert.Equal(t, "250.00", added.Msg.List.Total)

	_, err = shop.AddToList(ctx, connect.NewRequest(&api.AddToListRequest{ProductID: product.Msg.Product.ID, Quantity: 2}))
	assert.Equal(t, connect.CodeFailedPrecondition, connect.CodeOf(err))

	t.Run("shopping without a token", func(t *testing.T) {
		anon := api.NewShoppingServiceClient(http.DefaultClient, server.URL)
		_, err := anon.GetMyList(ctx, connect.NewRequest(&api.GetMyListRequest{}))
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})

	t.Run("beneficiary cannot use admin service", func(t *testing.T) {
		notAdmin := api.NewAdminServiceClient(http.DefaultClient, server.URL, bearer(reg.Msg.Token))
		_, err := notAdmin.ListPurchaseLists(ctx, connect.NewRequest(&api.ListPurchaseListsRequest{}))
		assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))
	})

	t.Run("metrics reflect the session", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		assert.Contains(t, string(body), `feira_list_operations_total{operation="add_product",outcome="limit_exceeded"} 1`)
		assert.Contains(t, string(body), "feira_purchase_lists_created_total 1")
		assert.Contains(t, string(body), "feira_rpc_duration_seconds")
	})
}

func TestHealthz(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ok\n", string(body))
}

func TestCORSPreflight(t *testing.T) {
	server, _, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, server.URL+api.ShoppingServiceAddToListProcedure, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "https://feira.example", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.True(t, strings.Contains(resp.Header.Get("Access-Control-Expose-Headers"), api.CeilingHeader))
}
