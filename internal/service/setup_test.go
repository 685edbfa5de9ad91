package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/feira/internal/auth"
	"github.com/mmynk/feira/internal/lists"
	"github.com/mmynk/feira/internal/middleware"
	"github.com/mmynk/feira/internal/models"
	"github.com/mmynk/feira/internal/storage/sqlite"
	"github.com/mmynk/feira/pkg/api"
)

const testEmailHeader = "X-Test-Email"

// testAuthInterceptor trusts the X-Test-Email header as the caller identity.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if email := req.Header().Get(testEmailHeader); email != "" {
				ctx = middleware.WithCaller(ctx, &middleware.Caller{UserID: "user-" + email, Email: email})
			}
			return next(ctx, req)
		}
	}
}

// asUser sets the test identity on every outgoing request.
func asUser(email string) connect.ClientOption {
	return connect.WithInterceptors(connect.UnaryInterceptorFunc(func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			req.Header().Set(testEmailHeader, email)
			return next(ctx, req)
		}
	}))
}

type testEnv struct {
	t      *testing.T
	ctx    context.Context
	store  *sqlite.SQLiteStore
	server *httptest.Server
	jwt    *auth.JWTManager
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager("service-test-secret-0123456789abcdef", time.Hour)
	listService := lists.NewService(store, lists.WithLogger(logger))
	resolver := auth.NewResolver(store)

	identity := connect.WithInterceptors(testAuthInterceptor(), middleware.ResolveBeneficiary(resolver))

	mux := http.NewServeMux()
	mux.Handle(api.NewShoppingServiceHandler(NewShoppingService(store, listService, logger), identity))
	mux.Handle(api.NewAdminServiceHandler(NewAdminService(store, listService, logger), identity))
	mux.Handle(api.NewAuthServiceHandler(
		NewAuthService(auth.NewPasswordAuthenticator(store), store, jwtManager, logger),
		connect.WithInterceptors(middleware.OptionalAuth(jwtManager), middleware.ResolveBeneficiary(resolver)),
	))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{t: t, ctx: context.Background(), store: store, server: server, jwt: jwtManager}
}

func (e *testEnv) shopping(email string) *api.ShoppingServiceClient {
	return api.NewShoppingServiceClient(http.DefaultClient, e.server.URL, asUser(email))
}

func (e *testEnv) admin(email string) *api.AdminServiceClient {
	return api.NewAdminServiceClient(http.DefaultClient, e.server.URL, asUser(email))
}

func (e *testEnv) auth() *api.AuthServiceClient {
	return api.NewAuthServiceClient(http.DefaultClient, e.server.URL)
}

func (e *testEnv) beneficiary(email, stipend string, isAdmin bool) *models.Beneficiary {
	e.t.Helper()
	b := &models.Beneficiary{Name: email, Email: email, IsAdmin: isAdmin}
	if stipend != "" {
		b.MonthlyStipend = decimal.NewNullDecimal(decimal.RequireFromString(stipend))
	}
	require.NoError(e.t, e.store.CreateBeneficiary(e.ctx, b))
	return b
}

func (e *testEnv) product(name, price string, available bool) *models.Product {
	e.t.Helper()
	p := &models.Product{Name: name, UnitPrice: decimal.RequireFromString(price), Available: available}
	require.NoError(e.t, e.store.CreateProduct(e.ctx, p))
	return p
}
