// Copyright (c) 2026 Polyglot. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Localization: Metadata key prefixes for per-locale field overrides.
  - Security: JWT issuers and form-token configuration.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "polyglot-api"
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
	AuthIssuer = "polyglot.app"

	// AccessTokenTTL is the lifetime of an editor access token.
	AccessTokenTTL = 8 * time.Hour
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # Locale Override Metadata Keys
//
// Per-locale field overrides are stored under "<prefix><key>" where <key> is
// the joined-slug locale key (e.g. "_post_title_fr_uk"). The default-locale
// content always lives in the entity's native column, never under a prefixed
// metadata key.

const (
	MetaPrefixPostTitle   = "_post_title_"
	MetaPrefixPostContent = "_post_content_"
	MetaPrefixTermName    = "_name_"
	MetaPrefixSingular    = "_singular_name_"
	MetaPrefixDescription = "_description_"

	// MetaKeyDefaultSingular is the single fixed key for the default-locale
	// singular name override. It carries no locale suffix and must not be a
	// prefixed per-key entry: a scheme whose variable recognizes the slug
	// "default" produces the locale key "default", and its singular override
	// would collide with any key of the form "_singular_name_<key>".
	MetaKeyDefaultSingular = "_default_singular_name"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldItems   = "items"
	FieldTotal   = "total"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Database Schemas

const (
	SchemaCMS   = "cms"
	SchemaUsers = "users"
)

// # Redis Prefixes

const (
	// RedisPrefixFormToken namespaces one-time form tokens guarding the
	// override save endpoints.
	RedisPrefixFormToken = "nonce:form_token:"

	// FormTokenTTL is how long an issued form token stays valid.
	FormTokenTTL = 15 * time.Minute
)
