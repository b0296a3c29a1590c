// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package httpclient_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/truyennet/internal/platform/apperr"
	"github.com/taibuivan/truyennet/internal/platform/httpclient"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// countingServer answers every request with body and counts hits.
func countingServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)

	return server, &hits
}

func newClient(server *httptest.Server, clock *fakeClock) *httpclient.Client {
	return httpclient.New(server.URL, httpclient.WithClock(clock.Now))
}

/*
TestGet_CachesWithinTTL ensures identical GETs inside the TTL reach the network once.
*/
func TestGet_CachesWithinTTL(t *testing.T) {
	server, hits := countingServer(t, http.StatusOK, `{"status":"success","data":{"n":1}}`)
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	client := newClient(server, clock)
	opts := httpclient.RequestOptions{Params: map[string]string{"page": "1"}}

	first, err := client.Get(context.Background(), "/home", opts)
	require.NoError(t, err)

	clock.Advance(4 * time.Minute)
	second, err := client.Get(context.Background(), "/home", opts)
	require.NoError(t, err)

	assert.Equal(t, int32(1), hits.Load())
	assert.JSONEq(t, string(first), string(second))
	assert.Equal(t, 1, client.Len())
}

/*
TestGet_RefetchesAfterTTL verifies a single new network call once the entry expires.
*/
func TestGet_RefetchesAfterTTL(t *testing.T) {
	server, hits := countingServer(t, http.StatusOK, `{"ok":true}`)
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	client := newClient(server, clock)

	_, err := client.Get(context.Background(), "/home", httpclient.RequestOptions{})
	require.NoError(t, err)

	clock.Advance(5 * time.Minute)
	assert.Equal(t, 0, client.Len())

	_, err = client.Get(context.Background(), "/home", httpclient.RequestOptions{})
	require.NoError(t, err)
	_, err = client.Get(context.Background(), "/home", httpclient.RequestOptions{})
	require.NoError(t, err)

	assert.Equal(t, int32(2), hits.Load())
}

/*
TestGet_CustomTTL honors WithTTL.
*/
func TestGet_CustomTTL(t *testing.T) {
	server, hits := countingServer(t, http.StatusOK, `{}`)
	clock := &fakeClock{now: time.Now()}
	client := httpclient.New(server.URL, httpclient.WithClock(clock.Now), httpclient.WithTTL(time.Second))

	_, _ = client.Get(context.Background(), "/the-loai", httpclient.RequestOptions{})
	clock.Advance(2 * time.Second)
	_, _ = client.Get(context.Background(), "/the-loai", httpclient.RequestOptions{})

	assert.Equal(t, int32(2), hits.Load())
}

/*
TestClearCache forces the next GET back to the network.
*/
func TestClearCache(t *testing.T) {
	server, hits := countingServer(t, http.StatusOK, `{}`)
	client := newClient(server, &fakeClock{now: time.Now()})

	_, _ = client.Get(context.Background(), "/home", httpclient.RequestOptions{})
	_, _ = client.Get(context.Background(), "/the-loai", httpclient.RequestOptions{})
	client.ClearCache()
	assert.Equal(t, 0, client.Len())

	_, _ = client.Get(context.Background(), "/home", httpclient.RequestOptions{})
	assert.Equal(t, int32(3), hits.Load())
}

/*
TestPost_BypassesCache checks that POST never reads or writes the cache.
*/
func TestPost_BypassesCache(t *testing.T) {
	var bodies []string
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, r.Method+" "+string(raw))
		mu.Unlock()
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	t.Cleanup(server.Close)

	client := newClient(server, &fakeClock{now: time.Now()})

	for range 2 {
		_, err := client.Post(context.Background(), "/report", map[string]int{"chapter": 3}, httpclient.RequestOptions{})
		require.NoError(t, err)
	}
	assert.Equal(t, 0, client.Len())

	_, err := client.Get(context.Background(), "/report", httpclient.RequestOptions{})
	require.NoError(t, err)

	require.Len(t, bodies, 3)
	assert.Equal(t, `POST {"chapter":3}`, bodies[0])
	assert.Equal(t, "GET ", bodies[2])
}

/*
TestGet_Failures covers the error taxonomy and that failures are never cached.
*/
func TestGet_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		code    string
		message string
	}{
		{"not_found", http.StatusNotFound, `{"status":"error"}`, apperr.CodeUpstream, "HTTP Error: 404 Not Found"},
		{"server_error", http.StatusInternalServerError, `oops`, apperr.CodeUpstream, "HTTP Error: 500 Internal Server Error"},
		{"invalid_json", http.StatusOK, `<html>`, apperr.CodeBadPayload, "Unexpected response from server"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, hits := countingServer(t, tt.status, tt.body)
			client := newClient(server, &fakeClock{now: time.Now()})

			_, err := client.Get(context.Background(), "/truyen-tranh/x", httpclient.RequestOptions{})
			require.Error(t, err)
			assert.True(t, apperr.HasCode(err, tt.code))
			assert.Equal(t, tt.message, err.Error())

			_, _ = client.Get(context.Background(), "/truyen-tranh/x", httpclient.RequestOptions{})
			assert.Equal(t, int32(2), hits.Load())
		})
	}
}

/*
TestGet_Timeout maps an exceeded per-request timeout to the timeout kind.
*/
func TestGet_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(server.Close)

	client := httpclient.New(server.URL)

	_, err := client.Get(context.Background(), "/home", httpclient.RequestOptions{Timeout: 20 * time.Millisecond})
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeTimeout))
	assert.Equal(t, "Request timeout", err.Error())
}

/*
TestGet_NetworkError maps connection failures to the network kind.
*/
func TestGet_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := httpclient.New(url)

	_, err := client.Get(context.Background(), "/home", httpclient.RequestOptions{})
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeNetwork))
	assert.Equal(t, "Network error: Could not connect to server", err.Error())
}

/*
TestGet_SendsParamsAndHeaders checks the query string and header overrides on the wire.
*/
func TestGet_SendsParamsAndHeaders(t *testing.T) {
	var gotQuery, gotAccept, gotExtra string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotAccept = r.Header.Get("Accept")
		gotExtra = r.Header.Get("X-Client")
		_, _ = io.WriteString(w, `{}`)
	}))
	t.Cleanup(server.Close)

	client := httpclient.New(server.URL + "/v1/api/")
	_, err := client.Get(context.Background(), "tim-kiem", httpclient.RequestOptions{
		Params:  map[string]string{"q": "one piece", "page": "2", "status": ""},
		Headers: map[string]string{"X-Client": "reader"},
	})
	require.NoError(t, err)

	assert.Equal(t, "page=2&q=one+piece", gotQuery)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "reader", gotExtra)
}

/*
TestCacheKey verifies key canonicalization.
*/
func TestCacheKey(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		params   map[string]string
		want     string
	}{
		{"no_params", "/home", nil, "/home"},
		{"leading_slash_added", "home", nil, "/home"},
		{"sorted", "/tim-kiem", map[string]string{"q": "a", "page": "1", "category": "action"}, "/tim-kiem?category=action&page=1&q=a"},
		{"empty_skipped", "/danh-sach/truyen-moi", map[string]string{"page": ""}, "/danh-sach/truyen-moi"},
		{"endpoint_query_merged", "/tim-kiem?q=x", map[string]string{"page": "2"}, "/tim-kiem?page=2&q=x"},
		{"param_overrides_endpoint_query", "tim-kiem?page=1&q=x", map[string]string{"page": "3"}, "/tim-kiem?page=3&q=x"},
		{"same_key_either_way", "/tim-kiem?q=x&page=2", nil, "/tim-kiem?page=2&q=x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, httpclient.CacheKey(tt.endpoint, tt.params))
		})
	}
}

/*
TestGetJSON decodes into a typed value and reports decode failures as bad payloads.
*/
func TestGetJSON(t *testing.T) {
	server, _ := countingServer(t, http.StatusOK, `{"name":"Tiên Nghịch","chapters":3}`)
	client := httpclient.New(server.URL)

	type comic struct {
		Name     string `json:"name"`
		Chapters int    `json:"chapters"`
	}

	got, err := httpclient.GetJSON[comic](context.Background(), client, "/x", httpclient.RequestOptions{})
	require.NoError(t, err)
	assert.Equal(t, comic{Name: "Tiên Nghịch", Chapters: 3}, got)

	_, err = httpclient.GetJSON[[]int](context.Background(), client, "/x", httpclient.RequestOptions{})
	assert.True(t, apperr.HasCode(err, apperr.CodeBadPayload))
}
