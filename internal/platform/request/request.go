// Copyright (c) 2026 Book Dolphin. All rights reserved.
// Author: platform@bookdolphin.io

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bookdolphin/catalog/internal/platform/apperr"
	"github.com/bookdolphin/catalog/internal/platform/ctxutil"
	"github.com/bookdolphin/catalog/internal/platform/sec"
	"github.com/bookdolphin/catalog/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
ID64 retrieves a named URL parameter and parses it as a positive int64 identifier.

Returns:
  - int64: The parsed identifier
  - error: A VALIDATION_ERROR if the parameter is missing or malformed
*/
func ID64(request *http.Request, name string) (int64, error) {
	raw := chi.URLParam(request, name)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, validate.RequiredError(name, "Must be a positive integer identifier")
	}

	return id, nil
}

/*
Admin extracts the authenticated admin claims from the request context.

Returns nil if the request is not authenticated.
*/
func Admin(request *http.Request) *sec.AdminClaims {
	return ctxutil.GetAdmin(request.Context())
}

/*
RequiredAdmin ensures the request is authenticated and returns the admin claims.

Returns:
  - *sec.AdminClaims: The authenticated operator claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredAdmin(request *http.Request) (*sec.AdminClaims, error) {

	// Get operator claims
	claims := ctxutil.GetAdmin(request.Context())

	// If the operator is not authenticated, return an error
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return claims, nil
}
