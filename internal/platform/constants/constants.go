// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants holds the fixed values shared by the server, the CLI and
the reader library.

Anything an operator may want to change belongs in [config.Config] instead;
these are the values that only change with a release.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "truyennet"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	DefaultReadTimeout       = 5 * time.Second
	DefaultReadHeaderTimeout = 2 * time.Second

	// DefaultWriteTimeout leaves room for a slow upstream behind GlobalRequestTimeout.
	DefaultWriteTimeout = 30 * time.Second
	DefaultIdleTimeout  = 120 * time.Second

	// GlobalRequestTimeout bounds every route except the events websocket.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long in-flight requests get to finish on SIGTERM.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// RateLimitCleanupInterval is how often idle client buckets are swept.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its bucket is dropped.
	RateLimitClientTTL = 3 * time.Minute
)

// # Upstream Comic API

const (
	// PlaceholderImage is served when a comic has no thumbnail at all.
	PlaceholderImage = "/placeholder-comic.jpg"

	// DefaultCacheTTL is how long a successful GET stays in the response cache.
	DefaultCacheTTL = 5 * time.Minute

	// ItemsPerPage is the page size the upstream uses for listings.
	ItemsPerPage = 24
)

// # Reader Storage

const (
	// StoragePrefix namespaces every persisted key.
	StoragePrefix = "truyennet_"

	MaxReadingHistory = 100
	MaxFavorites      = 500
)

// # HTTP

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"

	FieldError = "error"
	FieldCode  = "code"
)
