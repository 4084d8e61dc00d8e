// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/internal/platform/middleware"
	requestutil "github.com/taibuivan/merchantdesk/internal/platform/request"
	"github.com/taibuivan/merchantdesk/internal/platform/respond"
	"github.com/taibuivan/merchantdesk/internal/platform/sec"
)

type stubVerifier struct {
	claims *sec.AuthClaims
}

func (s stubVerifier) VerifyToken(_ context.Context, token string) (*sec.AuthClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return s.claims, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		respond.OK(writer, "ok")
	})
}

func decode(t *testing.T, recorder *httptest.ResponseRecorder) respond.Envelope {
	t.Helper()
	var envelope respond.Envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope
}

/*
TestRoleAndPermissionGates covers anonymous, wrong-role, missing-permission and allowed calls.
*/
func TestRoleAndPermissionGates(t *testing.T) {
	business := &sec.AuthClaims{
		UserID:      "u-1",
		Role:        sec.RoleBusinessAdmin,
		Permissions: []sec.Permission{sec.PermViewAssets},
	}

	chain := func(next http.Handler) http.Handler {
		return middleware.Authenticate(stubVerifier{claims: business})(
			middleware.RequireRole(sec.RoleBusinessAdmin)(next))
	}

	tests := []struct {
		name       string
		header     string
		permission sec.Permission
		wantStatus int
	}{
		{"anonymous", "", sec.PermViewAssets, http.StatusUnauthorized},
		{"malformed_header", "Token good", sec.PermViewAssets, http.StatusUnauthorized},
		{"bad_token", "Bearer nope", sec.PermViewAssets, http.StatusUnauthorized},
		{"allowed", "Bearer good", sec.PermViewAssets, http.StatusOK},
		{"missing_permission", "Bearer good", sec.PermConfigureSign, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := chain(middleware.RequirePermission(tt.permission)(okHandler()))

			request := httptest.NewRequest(http.MethodGet, "/api/business/assets", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			envelope := decode(t, recorder)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, respond.CodeSuccess, envelope.Code)
			} else {
				assert.Equal(t, tt.wantStatus, envelope.Code)
			}
		})
	}
}

/*
TestRequireRole_Disjoint rejects a system administrator on a business route.
*/
func TestRequireRole_Disjoint(t *testing.T) {
	system := &sec.AuthClaims{UserID: "root", Role: sec.RoleSystemAdmin}
	handler := middleware.Authenticate(stubVerifier{claims: system})(
		middleware.RequireRole(sec.RoleBusinessAdmin)(okHandler()))

	request := httptest.NewRequest(http.MethodGet, "/api/business/dashboard/stats", nil)
	request.Header.Set("Authorization", "Bearer good")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

/*
TestScopeMerchant gives a system administrator the merchant named in the
query, or the configured one.
*/
func TestScopeMerchant(t *testing.T) {
	system := &sec.AuthClaims{UserID: "root", Role: sec.RoleSystemAdmin}
	echo := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		domain, err := requestutil.MerchantDomain(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, domain)
	})

	tests := []struct {
		name       string
		target     string
		resolve    middleware.MerchantResolver
		wantStatus int
		wantDomain string
	}{
		{"configured_domain", "/api-keys", func(context.Context) (string, error) { return "test.yc365.com", nil }, http.StatusOK, "test.yc365.com"},
		{"query_wins", "/api-keys?merchantDomain=other.yc365.com", func(context.Context) (string, error) { return "test.yc365.com", nil }, http.StatusOK, "other.yc365.com"},
		{"nothing_configured", "/api-keys", func(context.Context) (string, error) { return "", apperr.NotFound("Domain configuration") }, http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.Authenticate(stubVerifier{claims: system})(
				middleware.RequireRole(sec.RoleSystemAdmin)(
					middleware.ScopeMerchant(tt.resolve)(echo)))

			request := httptest.NewRequest(http.MethodGet, tt.target, nil)
			request.Header.Set("Authorization", "Bearer good")
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantDomain, decode(t, recorder).Data)
			}
		})
	}

	// Without the scope a system administrator has no merchant of its own.
	handler := middleware.Authenticate(stubVerifier{claims: system})(echo)
	request := httptest.NewRequest(http.MethodGet, "/api-keys", nil)
	request.Header.Set("Authorization", "Bearer good")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

/*
TestPanicRecovery writes an internal-error envelope instead of crashing.
*/
func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, http.StatusInternalServerError, decode(t, recorder).Code)
}

/*
TestMetrics_RoutePatternLabel exposes counters labelled by route pattern.
*/
func TestMetrics_RoutePatternLabel(t *testing.T) {
	metrics := middleware.NewHTTPMetrics()

	router := chi.NewRouter()
	router.Use(metrics.Middleware)
	router.Get("/api/system/admins/{id}", func(writer http.ResponseWriter, _ *http.Request) {
		respond.OK(writer, nil)
	})
	router.Handle("/metrics", metrics.Handler())

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/system/admins/abc", nil))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := recorder.Body.String()
	assert.True(t, strings.Contains(body, `path="/api/system/admins/{id}"`), body)
	assert.NotContains(t, body, `path="/api/system/admins/abc"`)
}

/*
TestRateLimit_PerIP throttles one client without affecting another.
*/
func TestRateLimit_PerIP(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	handler := middleware.RateLimit(ctx)(okHandler())

	send := func(ip string) int {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("X-Real-IP", ip)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder.Code
	}

	throttled := false
	for range 1000 {
		if send("10.0.0.1") == http.StatusTooManyRequests {
			throttled = true
			break
		}
	}
	require.True(t, throttled)
	assert.Equal(t, http.StatusOK, send("10.0.0.2"))
}

type corsConfig struct {
	development bool
	suffix      string
}

func (c corsConfig) IsDevelopment() bool  { return c.development }
func (c corsConfig) OriginSuffix() string { return c.suffix }

/*
TestCORS allows configured origins and ends preflight requests.
*/
func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		cfg         corsConfig
		origin      string
		method      string
		wantAllowed bool
		wantStatus  int
	}{
		{"no_origin", corsConfig{suffix: "merchantdesk.app"}, "", http.MethodGet, false, http.StatusOK},
		{"suffix_match", corsConfig{suffix: "merchantdesk.app"}, "https://console.merchantdesk.app", http.MethodGet, true, http.StatusOK},
		{"foreign_origin", corsConfig{suffix: "merchantdesk.app"}, "https://evil.example.com", http.MethodGet, false, http.StatusOK},
		{"development", corsConfig{development: true}, "http://localhost:5173", http.MethodGet, true, http.StatusOK},
		{"preflight", corsConfig{suffix: "merchantdesk.app"}, "https://console.merchantdesk.app", http.MethodOptions, true, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(tt.method, "/", nil)
			if tt.origin != "" {
				request.Header.Set("Origin", tt.origin)
			}
			recorder := httptest.NewRecorder()
			middleware.CORS(tt.cfg)(okHandler()).ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantAllowed {
				assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

/*
TestRealIP prefers X-Real-IP, then the first forwarded hop, then RemoteAddr.
*/
func TestRealIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"real_ip", map[string]string{"X-Real-IP": "1.1.1.1", "X-Forwarded-For": "2.2.2.2"}, "1.1.1.1"},
		{"forwarded_first_hop", map[string]string{"X-Forwarded-For": " 2.2.2.2 , 3.3.3.3"}, "2.2.2.2"},
		{"remote_addr", nil, "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			for key, value := range tt.headers {
				request.Header.Set(key, value)
			}
			assert.Equal(t, tt.want, middleware.RealIP(request))
		})
	}
}

/*
TestRequestID keeps a caller id and mints one otherwise.
*/
func TestRequestID(t *testing.T) {
	handler := middleware.RequestID()(okHandler())

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-ID", "req-1")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "req-1", recorder.Header().Get("X-Request-ID"))

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, recorder.Header().Get("X-Request-ID"), 36)
}
