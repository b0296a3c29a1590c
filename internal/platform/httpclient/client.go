// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package httpclient performs JSON requests against the comic API and memoizes
successful GET responses for a fixed time-to-live.

Behavior:

  - GET: served from the cache while fresh, otherwise fetched and stored.
    Only 2xx responses with a valid JSON body are stored.
  - POST: always hits the network and never reads or writes the cache.
  - ClearCache: drops every entry. There is no per-key invalidation.

Two concurrent GETs for the same uncached key both reach the network.

Every failure is an [apperr.AppError] whose Message is display text:
"Request timeout", "Network error: Could not connect to server" or
"HTTP Error: <status> <text>". There is no automatic retry.
*/
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/truyennet/internal/platform/apperr"
	"github.com/taibuivan/truyennet/internal/platform/constants"
)

// maxResponseBytes bounds a single upstream body.
const maxResponseBytes = 16 << 20

// RequestOptions customizes a single request.
type RequestOptions struct {
	// Params are encoded into the query string (and into the cache key for GET).
	Params map[string]string

	// Headers override the default JSON headers.
	Headers map[string]string

	// Timeout bounds this request. Zero means only ctx and the transport apply.
	Timeout time.Duration
}

// Client is a JSON HTTP client with a GET response cache.
//
// It is safe for concurrent use and is meant to be constructed once at startup.
type Client struct {
	baseURL    string
	httpClient *http.Client
	ttl        time.Duration
	now        func() time.Time
	logger     *slog.Logger
	cache      *responseCache
}

// Option configures a [Client].
type Option func(*Client)

// WithTTL sets how long GET responses stay cached.
func WithTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithClock injects the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithLogger sets the logger used for cache diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New constructs a [Client] rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		ttl:        constants.DefaultCacheTTL,
		now:        time.Now,
		logger:     slog.Default(),
		cache:      newResponseCache(),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// # Requests

// Get returns the JSON payload at endpoint, from the cache when a fresh entry exists.
func (c *Client) Get(ctx context.Context, endpoint string, opts RequestOptions) (json.RawMessage, error) {
	key := CacheKey(endpoint, opts.Params)

	if payload, ok := c.cache.get(key, c.now()); ok {
		c.logger.DebugContext(ctx, "cache_hit", slog.String("key", key))
		return payload, nil
	}

	c.logger.DebugContext(ctx, "cache_miss", slog.String("key", key))

	payload, err := c.do(ctx, http.MethodGet, key, nil, opts)
	if err != nil {
		return nil, err
	}

	c.cache.set(key, payload, c.now().Add(c.ttl))
	return payload, nil
}

// Post sends body as JSON to endpoint. The cache is never consulted or updated.
func (c *Client) Post(ctx context.Context, endpoint string, body any, opts RequestOptions) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("httpclient: encode body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	return c.do(ctx, http.MethodPost, CacheKey(endpoint, opts.Params), reader, opts)
}

// # Cache Control

// ClearCache empties the whole response cache.
func (c *Client) ClearCache() {
	c.cache.clear()
	c.logger.Info("cache_cleared")
}

// Len reports how many cached entries are still fresh.
func (c *Client) Len() int {
	return c.cache.live(c.now())
}

// # Transport

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, opts RequestOptions) (json.RawMessage, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, apperr.NetworkError(err)
	}

	request.Header.Set("Accept", "application/json")
	request.Header.Set("Content-Type", "application/json")
	for name, value := range opts.Headers {
		request.Header.Set(name, value)
	}

	startTime := c.now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, classify(ctx, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, classify(ctx, err)
	}

	c.logger.DebugContext(ctx, "upstream_request_finished",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", response.StatusCode),
		slog.Int64("latency_ms", c.now().Sub(startTime).Milliseconds()),
	)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, apperr.UpstreamStatus(response.StatusCode, statusText(response))
	}

	if !json.Valid(raw) {
		return nil, apperr.BadPayload(fmt.Errorf("httpclient: %s %s returned non-JSON body", method, path))
	}

	return json.RawMessage(raw), nil
}

// classify maps transport failures onto the timeout and network kinds.
func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperr.Timeout(err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperr.Timeout(err)
	}

	return apperr.NetworkError(err)
}

// statusText strips the numeric code from "404 Not Found".
func statusText(response *http.Response) string {
	return strings.TrimSpace(strings.TrimPrefix(response.Status, strconv.Itoa(response.StatusCode)))
}

// # Typed Helpers

// Getter is the read side of [Client], satisfied by test fakes as well.
type Getter interface {
	Get(ctx context.Context, endpoint string, opts RequestOptions) (json.RawMessage, error)
}

// GetJSON fetches endpoint through getter and decodes it into T.
func GetJSON[T any](ctx context.Context, getter Getter, endpoint string, opts RequestOptions) (T, error) {
	var out T

	payload, err := getter.Get(ctx, endpoint, opts)
	if err != nil {
		return out, err
	}

	if err := json.Unmarshal(payload, &out); err != nil {
		return out, apperr.BadPayload(err)
	}

	return out, nil
}

// PostJSON posts body to endpoint and decodes the answer into T.
func PostJSON[T any](ctx context.Context, client *Client, endpoint string, body any, opts RequestOptions) (T, error) {
	var out T

	payload, err := client.Post(ctx, endpoint, body, opts)
	if err != nil {
		return out, err
	}

	if err := json.Unmarshal(payload, &out); err != nil {
		return out, apperr.BadPayload(err)
	}

	return out, nil
}
