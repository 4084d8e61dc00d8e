// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/internal/platform/ctxutil"
	"github.com/taibuivan/merchantdesk/internal/platform/sec"
	"github.com/taibuivan/merchantdesk/internal/platform/validate"
	"github.com/taibuivan/merchantdesk/pkg/pagination"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
ID retrieves a named URL parameter from the request.
*/
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Criteria parses the list query string (page, pageSize, keyword, status and
the date range) and reports malformed values as a validation error.
*/
func Criteria(request *http.Request) (pagination.Criteria, error) {
	criteria, err := pagination.FromRequest(request)
	if err != nil {
		return pagination.Criteria{}, apperr.ValidationError(err.Error())
	}
	return criteria, nil
}

/*
Claims extracts the authenticated user claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetClaims(request.Context())
}

/*
RequiredClaims ensures the request is authenticated and returns the user claims.

Returns:
  - *sec.AuthClaims: The authenticated user claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetClaims(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}

/*
MerchantDomain returns the merchant domain that scopes the request's data.

Description: A domain placed in the context by the merchant scope middleware
wins; otherwise the domain bound to the caller's account is used.

Returns:
  - string: The merchant domain
  - error: apperr.Unauthorized if anonymous, apperr.Forbidden if the account
    has no merchant domain
*/
func MerchantDomain(request *http.Request) (string, error) {
	claims, err := RequiredClaims(request)
	if err != nil {
		return "", err
	}

	if scoped := ctxutil.GetMerchantDomain(request.Context()); scoped != "" {
		return scoped, nil
	}

	if claims.MerchantDomain == "" {
		return "", apperr.Forbidden("Account is not bound to a merchant domain")
	}

	return claims.MerchantDomain, nil
}
