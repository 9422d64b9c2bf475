// Copyright (c) 2026 Rackline. All rights reserved.

/*
Package constants provides centralized, immutable values for the entire edge service.

It defines default timeouts, rate limits, cookie names, and cross-cutting keys
that are shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Session: Cookie names and the machine-checkable auth error strings.
  - Routing: Well-known page paths used by the route gate.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "rackline-gateway"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	// Must exceed the slowest proxy group timeout so upstream responses can drain.
	DefaultWriteTimeout = 35 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Upstream Timing

const (
	// DefaultProxyTimeout bounds a standard proxied backend call.
	DefaultProxyTimeout = 10 * time.Second

	// SlowProxyTimeout bounds proxied calls that are known to be slow
	// (payment submission, document upload).
	SlowProxyTimeout = 30 * time.Second

	// BackendCallTimeout bounds the session domain's own calls to the
	// backend (login, oauth exchange, logout notify).
	BackendCallTimeout = 15 * time.Second
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

// # Session Cookies

const (
	// TokenCookieName stores the backend-issued bearer token.
	TokenCookieName = "token"

	// UserCookieName stores the JSON-serialized user record.
	UserCookieName = "user"

	// RefreshTokenCookieName is a legacy cookie that logout always clears.
	RefreshTokenCookieName = "refreshToken"

	// CookiePath is the shared path for all session cookies.
	CookiePath = "/"

	// RememberedSessionTTL is the cookie lifetime when "remember me" is set.
	RememberedSessionTTL = 30 * 24 * time.Hour
)

// # Auth Error Strings
//
// These are machine-checkable and part of the wire contract with the
// web client. Do not reword them.

const (
	ErrTokenNotFound      = "Token Not Found"
	ErrInvalidTokenFormat = "Invalid Token Format"
	ErrTokenExpired       = "Token Expired"
	ErrAuthentication     = "Authentication Error"
)

// # Well-Known Page Paths

const (
	// LoginPath is where unauthenticated visitors to gated pages are sent.
	LoginPath = "/login"

	// CustomerHomePath is the default landing page after login and the
	// target of every role-mismatch redirect.
	CustomerHomePath = "/customer"

	// FromQueryParam carries the originally requested path+query through
	// the login redirect.
	FromQueryParam = "from"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
)

// # JSON Field Identifiers

const (
	FieldError   = "error"
	FieldCode    = "code"
	FieldStatus  = "status"
	FieldMessage = "message"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixProxyCache = "gateway:cache:"
)
