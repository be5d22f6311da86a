// Copyright (c) 2026 Book Dolphin. All rights reserved.
// Author: platform@bookdolphin.io

// Package idempotency provides a Redis-backed duplicate-submit guard for
// mutating API endpoints.
//
// # Architecture
//
// Back office clients send an Idempotency-Key header on writes. The guard
// claims the key with SETNX before the handler runs; a second request with
// the same key within the TTL window is rejected instead of re-executing
// the mutation. Keys expire automatically, so no cleanup job is needed.
package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bookdolphin/catalog/internal/platform/apperr"
	"github.com/bookdolphin/catalog/internal/platform/constants"
)

// DefaultTTL is how long a claimed key blocks duplicate submissions.
const DefaultTTL = 24 * time.Hour

// ErrDuplicate is returned when an idempotency key has already been claimed.
var ErrDuplicate = apperr.Conflict("Request with this Idempotency-Key was already processed")

// Guard claims idempotency keys in Redis.
type Guard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGuard creates a Guard with the default TTL.
func NewGuard(client *redis.Client) *Guard {
	return &Guard{
		client: client,
		ttl:    DefaultTTL,
	}
}

// Claim atomically claims the given key.
//
// Returns [ErrDuplicate] if the key was already claimed within the TTL
// window. Redis outages fail open: a guard failure must not block writes.
func (guard *Guard) Claim(ctx context.Context, key string) error {
	redisKey := constants.RedisPrefixIdempotency + key

	claimed, err := guard.client.SetNX(ctx, redisKey, time.Now().UTC().Format(time.RFC3339), guard.ttl).Result()
	if err != nil {
		// Fail open on infrastructure errors; the database constraints
		// remain the authoritative duplicate protection.
		return nil
	}

	if !claimed {
		return ErrDuplicate
	}

	return nil
}

// Release drops a claimed key so the client may retry after a failed mutation.
func (guard *Guard) Release(ctx context.Context, key string) error {
	redisKey := constants.RedisPrefixIdempotency + key

	if err := guard.client.Del(ctx, redisKey).Err(); err != nil {
		return fmt.Errorf("idempotency: failed to release key: %w", err)
	}

	return nil
}
