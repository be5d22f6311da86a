// Copyright (c) 2026 Book Dolphin. All rights reserved.
// Author: platform@bookdolphin.io

package api

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/bookdolphin/catalog/internal/platform/constants"
	"github.com/bookdolphin/catalog/internal/platform/postgres"
	"github.com/bookdolphin/catalog/internal/platform/redis"
	"github.com/bookdolphin/catalog/internal/platform/respond"
)

// # Health Endpoints
//
// Liveness only proves the process is serving; readiness verifies the
// backing stores so the orchestrator can pull an instance with a broken
// dependency out of rotation.

// Liveness handles GET /healthz.
func Liveness() http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		respond.JSON(writer, http.StatusOK, map[string]string{
			constants.FieldStatus: "ok",
		})
	}
}

// Readiness handles GET /readyz.
func Readiness(pool *pgxpool.Pool, client *goredis.Client) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		checks := map[string]string{}
		healthy := true

		if err := postgres.Ping(request.Context(), pool); err != nil {
			checks["postgres"] = err.Error()
			healthy = false
		} else {
			checks["postgres"] = "ok"
		}

		if err := redis.Ping(request.Context(), client); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}

		status := http.StatusOK
		statusText := "ok"
		if !healthy {
			status = http.StatusServiceUnavailable
			statusText = "degraded"
		}

		respond.JSON(writer, status, map[string]any{
			constants.FieldStatus: statusText,
			constants.FieldChecks: checks,
		})
	}
}
