// Copyright (c) 2026 Book Dolphin. All rights reserved.
// Author: platform@bookdolphin.io

package dberr_test

import (
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookdolphin/catalog/internal/platform/apperr"
	"github.com/bookdolphin/catalog/internal/platform/dberr"
)

/*
TestWrap_NoRows verifies that an empty result set maps to a 404 error.
*/
func TestWrap_NoRows(t *testing.T) {
	err := dberr.Wrap(pgx.ErrNoRows, "fetch category")

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "NOT_FOUND", appError.Code)
	assert.True(t, dberr.IsNotFound(err))
}

/*
TestWrap_UniqueViolation verifies that SQLSTATE 23505 maps to a conflict
and that the constraint name remains retrievable.
*/
func TestWrap_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		ConstraintName: "ux_categories_parent_slug",
	}

	assert.True(t, dberr.IsUniqueViolation(pgErr))
	assert.Equal(t, "ux_categories_parent_slug", dberr.ConstraintName(pgErr))

	err := dberr.Wrap(pgErr, "category slug")
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "CONFLICT", appError.Code)
}

/*
TestWrap_Transient verifies that serialization failures and deadlocks
are classified as retryable.
*/
func TestWrap_Transient(t *testing.T) {
	for _, code := range []string{pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected} {
		pgErr := &pgconn.PgError{Code: code}

		assert.True(t, dberr.IsTransient(pgErr), "code %s", code)

		err := dberr.Wrap(pgErr, "move category")
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "TRANSIENT", appError.Code)
	}
}

/*
TestWrap_Unknown verifies that unrecognized errors become internal errors
without leaking the cause to the client.
*/
func TestWrap_Unknown(t *testing.T) {
	cause := errors.New("connection reset by peer")
	err := dberr.Wrap(cause, "fetch category")

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "INTERNAL_ERROR", appError.Code)
	assert.NotContains(t, appError.Message, "connection reset")
	assert.ErrorIs(t, err, cause)
}

/*
TestWrap_Nil verifies that a nil error passes through untouched.
*/
func TestWrap_Nil(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "noop"))
}
