// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/internal/platform/constants"
	"github.com/taibuivan/merchantdesk/internal/platform/ctxutil"
	"github.com/taibuivan/merchantdesk/internal/platform/respond"
	"github.com/taibuivan/merchantdesk/internal/platform/sec"
)

// TokenVerifier checks an access token and its server-side session.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*sec.AuthClaims, error)
}

// Authenticate verifies a bearer token and stores its claims in the context.
// A request without an Authorization header passes through anonymous; a
// malformed header or a rejected token is answered with 401.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			claims, err := verifier.VerifyToken(request.Context(), parts[1])
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			ctx := ctxutil.WithClaims(request.Context(), claims)
			recordClaims(ctx, claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if GetClaims(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests whose role differs from the required one.
//
// The two roles are disjoint: a system administrator cannot reach business
// endpoints and vice versa. It implies [RequireAuth].
func RequireRole(role sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := GetClaims(request.Context())

			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if claims.Role != role {
				respond.Error(writer, request, apperr.Forbidden("Insufficient role"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RequirePermission blocks requests whose claims lack the given permission.
func RequirePermission(permission sec.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := GetClaims(request.Context())
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if !claims.Can(permission) {
				respond.Error(writer, request, apperr.Forbidden("Missing permission "+string(permission)))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// MerchantResolver returns the merchant domain a request acts on when the
// request does not name one.
type MerchantResolver func(ctx context.Context) (string, error)

// ScopeMerchant binds a system administrator request to one merchant: the
// merchantDomain query parameter when present, else the resolver's domain.
// Handlers read it through request.MerchantDomain.
func ScopeMerchant(resolve MerchantResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			domain := strings.TrimSpace(request.URL.Query().Get(constants.QueryMerchantDomain))
			if domain == "" {
				resolved, err := resolve(request.Context())
				if err != nil {
					respond.Error(writer, request, err)
					return
				}
				domain = resolved
			}

			ctx := ctxutil.WithMerchantDomain(request.Context(), domain)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// GetClaims retrieves the [*sec.AuthClaims] from the [context.Context].
// It returns nil if the caller is anonymous.
func GetClaims(ctx context.Context) *sec.AuthClaims {
	return ctxutil.GetClaims(ctx)
}
