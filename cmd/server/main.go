package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/celosoul/celosoul/internal"
	"github.com/celosoul/celosoul/internal/chain"
	chainmock "github.com/celosoul/celosoul/internal/chain/mock"
	"github.com/celosoul/celosoul/internal/discover"
	"github.com/celosoul/celosoul/internal/entitlement"
	"github.com/celosoul/celosoul/internal/gating"
	"github.com/celosoul/celosoul/internal/handler"
	"github.com/celosoul/celosoul/internal/metrics"
	"github.com/celosoul/celosoul/internal/middleware"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const version = "0.3.0"

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Entitlement persistence
	var repo entitlement.Repository
	switch cfg.StoreBackend {
	case "postgres":
		db, err := sql.Open("pgx", cfg.DatabaseUrl)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer db.Close()

		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}
		if err := internal.RunMigrations(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.Info("Database ready")

		repo = entitlement.NewPostgresRepository(db)
	default:
		logger.Info("Using in-memory entitlement store")
		repo = entitlement.NewMemoryRepository()
	}

	store := entitlement.NewStore(repo, logger)
	engine := gating.NewEngine(gating.WithFreeSwipeLimit(cfg.FreeSwipeLimit))

	// Chain client. Only the mock provider exists today; a real signer
	// backend slots in behind the same interface.
	chainClient := chainmock.New(logger)

	coordinator := discover.NewCoordinator(store, engine, chainClient, discover.NewStaticSource(), logger,
		discover.WithToken(chain.CUSDAddress(cfg.ChainID)),
		discover.WithTipRecipient(cfg.TipRecipient),
		discover.WithPaymentsContract(cfg.PaymentsContract),
		discover.WithTipAmount(cfg.TipAmount),
		discover.WithSuccessDelay(cfg.SuccessDelay),
	)

	// Middleware
	isSecure := cfg.Env != "development"
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	securityMw := middleware.NewSecurityHeadersMiddleware(isSecure)
	metricsAuthMw := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)

	paymentLimiter := middleware.NewRateLimiter(cfg.PaymentRateLimit, cfg.PaymentRateWindow, logger)
	limitPayments := middleware.NewRateLimitMiddleware(paymentLimiter, logger).Limit

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	handler.NewHealthHandler(version).RegisterRoutes(mux)
	handler.NewPlansHandler(logger).RegisterRoutes(mux)
	handler.NewUsageHandler(coordinator, logger).RegisterRoutes(mux)
	handler.NewDiscoverHandler(coordinator, cfg.ChainID, logger).RegisterRoutes(mux, limitPayments)
	handler.NewSubscriptionHandler(coordinator, cfg.ChainID, logger).RegisterRoutes(mux, limitPayments)

	mux.Handle("GET /metrics", metricsAuthMw.Handler(promhttp.Handler()))

	// Identity wraps logging so request logs carry the identity key.
	var root http.Handler = mux
	root = loggingMw.Handler(root)
	root = middleware.Identity(root)
	root = metrics.Middleware(root)
	root = securityMw.Handler(root)

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: root,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env, "chain_id", cfg.ChainID)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
