// Copyright (c) 2026 Book Dolphin. All rights reserved.
// Author: platform@bookdolphin.io

/*
Package api assembles the HTTP server: the middleware chain, the versioned
route tree, and the operational health endpoints.

The domain packages own their own handlers; this package only mounts them
and applies the cross-cutting stack around them.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/bookdolphin/catalog/internal/catalog/category"
	"github.com/bookdolphin/catalog/internal/catalog/product"
	"github.com/bookdolphin/catalog/internal/platform/config"
	"github.com/bookdolphin/catalog/internal/platform/constants"
	"github.com/bookdolphin/catalog/internal/platform/idempotency"
	"github.com/bookdolphin/catalog/internal/platform/middleware"
)

// Handlers bundles the domain handlers mounted under /api/v1.
type Handlers struct {
	Categories *category.Handler
	Products   *product.Handler
}

// Dependencies carries the infrastructure the server needs beyond handlers.
type Dependencies struct {
	Config   *config.Config
	Logger   *slog.Logger
	Pool     *pgxpool.Pool
	Redis    *goredis.Client
	Guard    *idempotency.Guard
	Verifier middleware.TokenVerifier
}

// NewServer builds the fully wired [*http.Server].
func NewServer(ctx context.Context, deps Dependencies, handlers Handlers) *http.Server {
	router := chi.NewRouter()

	// Order matters: tracing first so every later stage can correlate logs,
	// authentication before idempotency so claimed keys are attributable.
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(deps.Logger))
	router.Use(chimiddleware.Timeout(constants.GlobalRequestTimeout))
	router.Use(middleware.RateLimit(ctx))
	router.Use(middleware.CORS(deps.Config))
	router.Use(middleware.Authenticate(deps.Verifier))
	router.Use(middleware.Idempotency(deps.Guard))
	router.Use(middleware.PanicRecovery(deps.Logger))

	router.Get("/healthz", Liveness())
	router.Get("/readyz", Readiness(deps.Pool, deps.Redis))

	router.Route("/api/v1", func(apiRouter chi.Router) {
		apiRouter.Mount("/categories", handlers.Categories.Routes())
		apiRouter.Mount("/products", handlers.Products.Routes())
	})

	return &http.Server{
		Addr:              ":" + deps.Config.ServerPort,
		Handler:           router,
		ReadTimeout:       constants.DefaultReadTimeout,
		ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		WriteTimeout:      constants.DefaultWriteTimeout,
		IdleTimeout:       constants.DefaultIdleTimeout,
	}
}

// Shutdown drains in-flight requests within the platform shutdown budget.
func Shutdown(server *http.Server, logger *slog.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	start := time.Now()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", slog.Any("error", err))
		return
	}

	logger.Info("server_shutdown_complete",
		slog.Int64("drain_ms", time.Since(start).Milliseconds()),
	)
}
