// Package main runs the SDI HTTP service: connector sync, score lookup,
// history, reports, health and Prometheus metrics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"skillion-sdi/internal/accountsync"
	"skillion-sdi/internal/api"
	"skillion-sdi/internal/config"
	"skillion-sdi/internal/logging"
	"skillion-sdi/internal/observability"
	chstore "skillion-sdi/internal/storage/clickhouse"
	"skillion-sdi/internal/storage/memory"
	"skillion-sdi/internal/storage/migrations"
	pgstore "skillion-sdi/internal/storage/postgres"
)

func main() {
	// Load .env file and environment overrides
	env, err := config.LoadEnv(config.DefaultEnvFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading environment: %v\n", err)
		os.Exit(1)
	}

	// Parse flags (env values as defaults)
	configPath := flag.String("config", env.ConfigPath, "Path to YAML config file")
	flag.StringVar(&env.Addr, "addr", env.Addr, "HTTP listen address (overrides config)")
	flag.StringVar(&env.PostgresDSN, "postgres-dsn", env.PostgresDSN, "PostgreSQL connection string")
	flag.StringVar(&env.ClickhouseDSN, "clickhouse-dsn", env.ClickhouseDSN, "ClickHouse connection string")
	flag.BoolVar(&env.UseMemory, "use-memory", env.UseMemory, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	flag.StringVar(&env.LogLevel, "log-level", env.LogLevel, "Log level: debug, info, warn, error (overrides config)")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	env.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := cfg.RequireStores(); err != nil {
		logger.Fatal("missing store configuration", zap.Error(err))
	}

	// Create context with cancellation on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, cleanup, err := createStores(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to create stores", zap.Error(err))
	}
	defer cleanup()

	metrics := observability.DefaultMetrics
	svc := accountsync.NewService(stores,
		accountsync.WithLogger(logger.Named("sync")),
		accountsync.WithMetrics(metrics),
		accountsync.WithRateLimitWindow(cfg.RateLimitWindow()),
		accountsync.WithMinTokenLength(cfg.Sync.MinTokenLength),
	)

	handler := api.NewHandler(svc, stores.Scores, stores.History, logger.Named("api"), metrics, api.Config{
		DefaultPlatform: cfg.Sync.DefaultPlatform,
		MaxBodyBytes:    cfg.HTTP.MaxBodyBytes,
		RetryAfter:      cfg.RateLimitWindow(),
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      handler.Routes(),
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server",
			zap.String("addr", cfg.HTTP.Addr),
			zap.Bool("use_memory", cfg.UseMemory),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal, draining connections",
			zap.Duration("timeout", cfg.ShutdownTimeout()))
	case err := <-errCh:
		if err != nil {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return
	}

	logger.Info("shutdown complete")
}

// createStores creates all required stores and runs migrations.
func createStores(ctx context.Context, cfg *config.Config) (accountsync.Stores, func(), error) {
	if cfg.UseMemory {
		stores := accountsync.Stores{
			Accounts:   memory.NewAccountStore(),
			Trades:     memory.NewTradeStore(),
			Scores:     memory.NewScoreStore(),
			History:    memory.NewScoreHistoryStore(),
			RateLimits: memory.NewRateLimitStore(),
		}
		return stores, func() {}, nil
	}

	// PostgreSQL
	pool, err := pgstore.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return accountsync.Stores{}, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return accountsync.Stores{}, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	// ClickHouse
	chConn, err := migrations.RunClickhouseMigrations(ctx, cfg.Clickhouse.DSN)
	if err != nil {
		pool.Close()
		return accountsync.Stores{}, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	stores := accountsync.Stores{
		// PostgreSQL stores (accounts, trades, latest score, rate limits)
		Accounts:   pgstore.NewAccountStore(pool),
		Trades:     pgstore.NewTradeStore(pool),
		Scores:     pgstore.NewScoreStore(pool),
		RateLimits: pgstore.NewRateLimitStore(pool),

		// ClickHouse store (score history)
		History: chstore.NewScoreHistoryStore(chConn),
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}

	return stores, cleanup, nil
}
