// Copyright (c) 2026 Book Dolphin. All rights reserved.
// Author: platform@bookdolphin.io

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookdolphin/catalog/internal/platform/apperr"
	"github.com/bookdolphin/catalog/internal/platform/validate"
)

/*
TestValidator_Chain verifies that multiple failures accumulate into a single
VALIDATION_ERROR with per-field details.
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}
	err := v.
		Required("name", "  ").
		Slug("slug", "Not A Slug").
		Range("sortOrder", -5, 0, 1000000).
		Err()

	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
	assert.Len(t, appError.Details, 3)
	assert.Equal(t, "name", appError.Details[0].Field)
	assert.Equal(t, "slug", appError.Details[1].Field)
	assert.Equal(t, "sortOrder", appError.Details[2].Field)
}

/*
TestValidator_AllPass verifies that a fully valid chain returns nil.
*/
func TestValidator_AllPass(t *testing.T) {
	v := &validate.Validator{}
	err := v.
		Required("name", "Mens Shoes").
		MaxLen("name", "Mens Shoes", 120).
		Slug("slug", "mens-shoes").
		OneOf("status", "ACTIVE", "ACTIVE", "READY", "DISABLED").
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Slug verifies the slug format rules.
*/
func TestValidator_Slug(t *testing.T) {
	valid := []string{"a", "shoes", "mens-shoes", "v2-sale-2026"}
	invalid := []string{"", "-shoes", "shoes-", "Mens-Shoes", "a--b", "a_b", "café"}

	for _, s := range valid {
		v := &validate.Validator{}
		assert.NoError(t, v.Slug("slug", s).Err(), "expected valid: %q", s)
	}
	for _, s := range invalid {
		v := &validate.Validator{}
		assert.Error(t, v.Slug("slug", s).Err(), "expected invalid: %q", s)
	}
}

/*
TestValidator_MaxLen verifies Unicode-aware length counting.
*/
func TestValidator_MaxLen(t *testing.T) {
	v := &validate.Validator{}

	// 3 runes but 9 bytes: must pass a max of 3
	assert.NoError(t, v.MaxLen("name", "남성화", 3).Err())
}

/*
TestRequiredError verifies the single-field shortcut.
*/
func TestRequiredError(t *testing.T) {
	err := validate.RequiredError("parentId", "Unknown parent")

	require.NotNil(t, err)
	assert.Equal(t, "VALIDATION_ERROR", err.Code)
	require.Len(t, err.Details, 1)
	assert.Equal(t, "parentId", err.Details[0].Field)
}
