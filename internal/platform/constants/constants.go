// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, business limits and cross-cutting keys
that are shared between the API server and the console client.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Business Limits: Cardinality caps enforced on merchant resources.
*/
package constants

import "time"

// # Metadata

const (
	AppName        = "merchantdesk-api"
	ConsoleAppName = "merchantdesk"
	AppVersion     = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "merchantdesk.app"

	// MockTokenPrefix prefixes tokens minted by the offline console.
	MockTokenPrefix = "mock-jwt-token-"
)

// # Business Limits

const (
	// MaxAPIKeys caps the API keys of one merchant, active or disabled.
	MaxAPIKeys = 5

	// APIKeyPrefix starts every issued API key.
	APIKeyPrefix = "yk_"

	// APIKeyRandomLength is the base62 suffix length of an API key.
	APIKeyRandomLength = 32

	// AccountMinLength and PasswordMinLength bound credentials.
	AccountMinLength  = 3
	PasswordMinLength = 6
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
)

// QueryMerchantDomain names the merchant a system administrator acts on.
const QueryMerchantDomain = "merchantDomain"

// # JSON Field Identifiers

const (
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Database Schemas

const (
	SchemaConsole  = "console"
	SchemaMerchant = "merchant"
	SchemaPlatform = "platform"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixSession        = "auth:session:"
	RedisPrefixConsoleSession = "console:session:"
)
