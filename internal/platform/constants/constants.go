// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, cookie names and cache key prefixes
that are shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: token issuer, cookie names and redirect targets.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "stockroom"
	AppVersion = "0.1.0-dev"
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

	// MaxFormBytes caps the size of form-encoded request bodies.
	MaxFormBytes = 64 << 10
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// CredentialRateLimitRPS throttles the credential-submitting endpoints
	// (login, forgot, reset) per IP.
	CredentialRateLimitRPS = 1.0

	// CredentialRateLimitBurst allows a handful of quick retries.
	CredentialRateLimitBurst = 10

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the 'iss' claim of remember-me tokens.
	AuthIssuer = "stockroom.app"

	// SessionCookieName carries the signed opaque session identifier.
	SessionCookieName = "sessionId"

	// RememberMeCookieName carries the signed remember-me JWT.
	RememberMeCookieName = "authToken"

	// ReturnToCookieName records where to send the user after login.
	ReturnToCookieName = "returnTo"

	// ReturnToTTL bounds how long a recorded return location survives.
	ReturnToTTL = 10 * time.Minute

	// FlashCookieName carries one-shot status messages across a redirect.
	FlashCookieName = "flash"

	// CookiePath scopes every auth cookie to the whole site.
	CookiePath = "/"
)

// # Routes

const (
	PathHome     = "/"
	PathLogin    = "/auth/login"
	PathRegister = "/auth/register"
	PathForgot   = "/auth/forgot"
	PathReset    = "/auth/reset/"
)

// # HTTP Headers

const (
	HeaderXRequestID     = "X-Request-ID"
	HeaderXRealIP        = "X-Real-IP"
	HeaderXForwardedFor  = "X-Forwarded-For"
	HeaderXRequestedWith = "X-Requested-With"
	HeaderAccept         = "Accept"
)

// # JSON Field Identifiers

const (
	FieldData     = "data"
	FieldError    = "error"
	FieldCode     = "code"
	FieldMessage  = "message"
	FieldRedirect = "redirect"
	FieldStatus   = "status"
	FieldChecks   = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixSession       = "auth:session:"
	RedisPrefixUserSessions  = "auth:user_sessions:"
	RedisPrefixRevokedToken  = "auth:remember_revoked:"
	RedisPrefixRevokedBefore = "auth:revoked_before:"
)
