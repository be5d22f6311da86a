// Copyright (c) 2026 Book Dolphin. All rights reserved.
// Author: platform@bookdolphin.io

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// Postgres reports constraint violations and concurrency conflicts through
// SQLSTATE codes on [*pgconn.PgError]. This package classifies those codes so
// the service layer can translate them into its own error taxonomy without
// importing pgx directly.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bookdolphin/catalog/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Unique violations bubble up as conflicts; the caller can recover the
	// offending constraint via ConstraintName and remap to a domain code.
	if IsUniqueViolation(err) {
		conflict := apperr.Conflict("Duplicate value for " + action)
		conflict.Cause = err
		return conflict
	}

	// 3. Serialization failures and deadlocks are retryable
	if IsTransient(err) {
		return apperr.Transient(err)
	}

	// 4. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}

// IsNotFound reports whether err indicates an empty result set.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, ErrNotFound)
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// IsTransient reports whether err is a retryable concurrency failure:
// a serialization conflict (SQLSTATE 40001) or a deadlock (SQLSTATE 40P01).
func IsTransient(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
}

// ConstraintName extracts the violated constraint name from a Postgres error.
// Returns an empty string if err is not a constraint violation.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return ""
	}
	return pgErr.ConstraintName
}
