// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package httpclient

import (
	"encoding/json"
	"net/url"
	"strings"
	"sync"
	"time"
)

// entry is one memoized GET payload.
type entry struct {
	payload   json.RawMessage
	expiresAt time.Time
}

// responseCache is a TTL map with lazy eviction. Expired entries are removed
// only when read, or all at once by clear.
type responseCache struct {
	mu      sync.Mutex
	entries map[string]entry
}

func newResponseCache() *responseCache {
	return &responseCache{entries: make(map[string]entry)}
}

// get returns the payload for key if it has not expired at now.
func (c *responseCache) get(key string, now time.Time) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cached, found := c.entries[key]
	if !found {
		return nil, false
	}

	if !now.Before(cached.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}

	return cached.payload, true
}

func (c *responseCache) set(key string, payload json.RawMessage, expiresAt time.Time) {
	c.mu.Lock()
	c.entries[key] = entry{payload: payload, expiresAt: expiresAt}
	c.mu.Unlock()
}

func (c *responseCache) clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// live counts entries that have not expired at now, without evicting.
func (c *responseCache) live(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, cached := range c.entries {
		if now.Before(cached.expiresAt) {
			count++
		}
	}
	return count
}

// CacheKey builds the request key: the endpoint path plus the query string
// with keys sorted. Empty values are skipped, so {"page": ""} and {} share a key.
//
// Example:
//
//	CacheKey("/tim-kiem", map[string]string{"q": "one piece", "page": "2"}) // "/tim-kiem?page=2&q=one+piece"
//
// A query string already on endpoint is merged with params; params win on
// conflicts.
func CacheKey(endpoint string, params map[string]string) string {
	endpoint = strings.TrimSpace(endpoint)

	values := url.Values{}
	if parsed, err := url.Parse(endpoint); err == nil {
		endpoint = parsed.EscapedPath()
		for name, list := range parsed.Query() {
			if len(list) > 0 && list[0] != "" {
				values.Set(name, list[0])
			}
		}
	}
	path := "/" + strings.TrimLeft(endpoint, "/")

	for name, value := range params {
		if value == "" {
			continue
		}
		values.Set(name, value)
	}

	if len(values) == 0 {
		return path
	}

	// url.Values.Encode sorts by key.
	return path + "?" + values.Encode()
}
