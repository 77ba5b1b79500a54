package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lapakgo/lapak/internal"
	"github.com/lapakgo/lapak/internal/crypto"
	"github.com/lapakgo/lapak/internal/events"
	"github.com/lapakgo/lapak/internal/handler"
	"github.com/lapakgo/lapak/internal/middleware"
	"github.com/lapakgo/lapak/internal/repository"
	"github.com/lapakgo/lapak/internal/router"
	"github.com/lapakgo/lapak/internal/service"
	"github.com/lapakgo/lapak/internal/telemetry"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.LoadConfig(slog.Default())
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	// Verify database connection
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	// Initialize repository
	store := repository.NewDatastore(pool)

	// Initialize crypto
	encryptor, err := newEncryptor(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize encryptor: %w", err)
	}
	hasher, err := newPhoneHasher(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize phone hasher: %w", err)
	}

	// Initialize event publisher
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.NatsURL != "" {
		natsPublisher, err := events.NewNATSPublisher(cfg.NatsURL, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
		logger.Info("NATS event publisher initialized", "url", cfg.NatsURL)
	} else {
		logger.Info("NATS_URL not set, order events disabled")
	}

	// Initialize metrics
	registry := prometheus.NewRegistry()
	businessMetrics := telemetry.NewBusinessMetrics(registry)
	httpMetrics := middleware.NewMetrics(registry, "lapak")

	// Initialize services
	storeDirectory := service.NewStoreDirectory(store, encryptor)
	orderService := service.NewOrderService(store, hasher, publisher, businessMetrics, logger)

	// Build router
	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		httpMetrics.Middleware,
		router.Logger(logger),
		middleware.WithRequestLogger(logger),
	)

	// Metrics endpoint (protect via firewall in production)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		httpMetrics.Handler().ServeHTTP(w, req)
	})

	// Health check endpoint
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := pool.Ping(req.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	orderHandler := handler.NewOrderHandler(orderService, storeDirectory, logger)
	orderHandler.RegisterRoutes(r)

	// Start server with graceful shutdown
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", addr, "environment", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		logger.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

// newEncryptor builds the contact number encryptor. Production requires a
// configured key; development falls back to an ephemeral one.
func newEncryptor(cfg *internal.Config, logger *slog.Logger) (crypto.Encryptor, error) {
	if cfg.EncryptionKey != "" {
		key, err := crypto.DecodeKeyBase64(cfg.EncryptionKey)
		if err != nil {
			return nil, err
		}
		return crypto.NewAESEncryptor(key)
	}

	logger.Warn("ENCRYPTION_KEY not set, using ephemeral key; encrypted data will not survive restarts")
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	return crypto.NewAESEncryptor(key)
}

// newPhoneHasher builds the customer phone hasher. Production requires a
// configured key; development falls back to an ephemeral one.
func newPhoneHasher(cfg *internal.Config, logger *slog.Logger) (*crypto.PhoneHasher, error) {
	if cfg.PhoneHashKey != "" {
		return crypto.NewPhoneHasher([]byte(cfg.PhoneHashKey))
	}

	logger.Warn("PHONE_HASH_KEY not set, using ephemeral key; phone hashes will not be stable across restarts")
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	return crypto.NewPhoneHasher(key)
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
