package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/factlock/factlock/internal/api"
	"github.com/factlock/factlock/internal/config"
	"github.com/factlock/factlock/internal/evidence"
	"github.com/factlock/factlock/internal/ledger"
	"github.com/factlock/factlock/internal/signer"
	"github.com/factlock/factlock/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	if err := config.Load(); err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx := context.Background()

	// Evidence provider credentials are validated eagerly: a service that
	// cannot fetch evidence has nothing to serve.
	provider, err := evidence.NewProvider(
		config.EvidenceProvider(),
		config.EvidenceAPIKey(),
		config.OpenAIAPIKey(),
	)
	if err != nil {
		logger.Fatal("evidence provider initialization failed",
			zap.String("provider", config.EvidenceProvider()),
			zap.Error(err))
	}
	logger.Info("evidence provider initialized", zap.String("provider", provider.Name()))

	deps := api.Deps{Provider: provider}

	// Ledger submission and signing endpoints are enabled only when a key
	// is configured; local evaluation works without either.
	if hexKey := config.EthPrivateKey(); hexKey != "" {
		sgn, err := signer.New(hexKey)
		if err != nil {
			logger.Fatal("failed to load signing key", zap.Error(err))
		}
		deps.Signer = sgn

		ethClient, err := ledger.NewEthClient(ctx, config.EthRPCURL(), hexKey, logger)
		if err != nil {
			logger.Fatal("failed to connect to ledger", zap.String("rpc_url", config.EthRPCURL()), zap.Error(err))
		}
		deps.Ledger = ethClient
		logger.Info("ledger client initialized",
			zap.String("rpc_url", config.EthRPCURL()),
			zap.String("address", ethClient.Address().Hex()))
	} else {
		logger.Warn("ETH_PRIVATE_KEY not set, ledger submission disabled")
	}

	if dbURL := config.DatabaseURL(); dbURL != "" {
		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			logger.Fatal("failed to ping database", zap.Error(err))
		}
		if err := store.NewJournalStore(pool).Init(ctx); err != nil {
			logger.Fatal("failed to initialize commitment journal", zap.Error(err))
		}
		deps.DB = pool
		logger.Info("commitment journal enabled")
	}

	app := api.NewApp(deps, logger)
	defer app.Close()

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:    addr,
		Handler: app.Router,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
