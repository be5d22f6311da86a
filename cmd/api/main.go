// Copyright (c) 2026 Book Dolphin. All rights reserved.
// Author: platform@bookdolphin.io

// Command api runs the catalog HTTP server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bookdolphin/catalog/internal/api"
	"github.com/bookdolphin/catalog/internal/catalog/category"
	"github.com/bookdolphin/catalog/internal/catalog/product"
	"github.com/bookdolphin/catalog/internal/platform/config"
	"github.com/bookdolphin/catalog/internal/platform/constants"
	"github.com/bookdolphin/catalog/internal/platform/idempotency"
	"github.com/bookdolphin/catalog/internal/platform/migration"
	"github.com/bookdolphin/catalog/internal/platform/postgres"
	"github.com/bookdolphin/catalog/internal/platform/redis"
	"github.com/bookdolphin/catalog/internal/platform/sec"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Structured JSON logging for everything downstream
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", constants.AppName),
		slog.String("version", constants.AppVersion),
	)
	slog.SetDefault(logger)

	// 2. Configuration from the environment
	cfg, err := config.Load()
	must(logger, "config", err)

	if cfg.Debug {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		slog.SetDefault(logger)
	}

	// 3. Schema migrations before any traffic
	must(logger, "migration", migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, logger))

	// 4. Infrastructure clients
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, logger)
	must(logger, "postgres", err)
	defer pool.Close()

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL, logger)
	must(logger, "redis", err)
	defer func() { _ = redisClient.Close() }()

	tokenService, err := sec.NewTokenService(cfg.AdminTokenSecret, constants.AuthIssuer)
	must(logger, "sec", err)

	guard := idempotency.NewGuard(redisClient)

	// 5. Domain wiring. The product store doubles as the category delete
	// guard so a subtree with attached products cannot be removed.
	productStore := product.NewProductStore(pool)
	productService := product.NewService(productStore, product.NewTxManager(pool), logger)

	categoryService := category.NewService(category.NewTxManager(pool), productStore, logger)

	handlers := api.Handlers{
		Categories: category.NewHandler(categoryService),
		Products:   product.NewHandler(productService),
	}

	server := api.NewServer(ctx, api.Dependencies{
		Config:   cfg,
		Logger:   logger,
		Pool:     pool,
		Redis:    redisClient,
		Guard:    guard,
		Verifier: tokenService,
	}, handlers)

	// 6. Serve until interrupted, then drain
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_listening", slog.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown_signal_received")
		api.Shutdown(server, logger)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server_failed", slog.Any("error", err))
			os.Exit(1)
		}
	}
}

// must aborts startup when a boot stage fails.
func must(logger *slog.Logger, stage string, err error) {
	if err != nil {
		logger.Error("startup_failed",
			slog.String("stage", stage),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
