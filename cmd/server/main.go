package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/feira/internal/auth"
	"github.com/mmynk/feira/internal/config"
	"github.com/mmynk/feira/internal/lists"
	"github.com/mmynk/feira/internal/metrics"
	"github.com/mmynk/feira/internal/middleware"
	"github.com/mmynk/feira/internal/service"
	"github.com/mmynk/feira/internal/storage"
	"github.com/mmynk/feira/internal/storage/sqlite"
	"github.com/mmynk/feira/pkg/api"
	"github.com/mmynk/feira/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DBPath)

	if cfg.IsDevelopment() && os.Getenv("JWT_SECRET") == "" {
		logger.Warn("Using the development JWT secret; set JWT_SECRET in production")
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	if cfg.HasAdmin() {
		seed := auth.AdminSeed{Email: cfg.AdminEmail, Name: cfg.AdminName, Password: cfg.AdminPassword}
		if err := auth.EnsureAdmin(ctx, store, authenticator, seed, logger); err != nil {
			return err
		}
	}

	reg := prometheus.NewRegistry()
	var recorder *metrics.Recorder
	if cfg.MetricsEnabled {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recorder = metrics.New(reg)
	}

	handler := newHandler(cfg, store, deps{
		logger:        logger,
		jwtManager:    jwtManager,
		authenticator: authenticator,
		metrics:       recorder,
		registry:      reg,
	})

	server := &http.Server{
		Addr: cfg.Addr(),
		// h2c serves HTTP/2 without TLS, which Connect and gRPC clients need.
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Connect server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost%s", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}

type deps struct {
	logger        *slog.Logger
	jwtManager    *auth.JWTManager
	authenticator auth.Authenticator
	metrics       *metrics.Recorder
	registry      *prometheus.Registry
}

// newHandler wires services, interceptors and the plain HTTP endpoints.
func newHandler(cfg *config.Config, store storage.Store, d deps) http.Handler {
	listService := lists.NewService(store, lists.WithMetrics(d.metrics), lists.WithLogger(d.logger))
	resolver := auth.NewResolver(store)

	// Metrics wrap everything so rejected logins are counted too.
	common := []connect.Interceptor{middleware.MetricsInterceptor(d.metrics)}
	authed := connect.WithInterceptors(append(common,
		middleware.RequireAuth(d.jwtManager),
		middleware.ResolveBeneficiary(resolver),
		middleware.LoggingInterceptor(d.logger),
	)...)
	public := connect.WithInterceptors(append(common,
		middleware.OptionalAuth(d.jwtManager),
		middleware.ResolveBeneficiary(resolver),
		middleware.LoggingInterceptor(d.logger),
	)...)

	mux := http.NewServeMux()
	mux.Handle(api.NewAuthServiceHandler(service.NewAuthService(d.authenticator, store, d.jwtManager, d.logger), public))
	mux.Handle(api.NewShoppingServiceHandler(service.NewShoppingService(store, listService, d.logger), authed))
	mux.Handle(api.NewAdminServiceHandler(service.NewAdminService(store, listService, d.logger), authed))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	if cfg.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{}))
	}

	return corsMiddleware(cfg.AllowedOrigin, mux)
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms, "+api.CeilingHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
