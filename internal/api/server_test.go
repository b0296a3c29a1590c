// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/truyennet/internal/api"
	"github.com/taibuivan/truyennet/internal/catalog"
	"github.com/taibuivan/truyennet/internal/library"
	"github.com/taibuivan/truyennet/internal/otruyen"
	"github.com/taibuivan/truyennet/internal/platform/config"
	"github.com/taibuivan/truyennet/internal/platform/httpclient"
	"github.com/taibuivan/truyennet/internal/platform/kv"
)

func newTestServer(t *testing.T, checkStorage func(context.Context) error) (*httptest.Server, *library.Library) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		Environment:         "production",
		AllowedOriginSuffix: "truyennet.app",
		RateLimitRPS:        1000,
		RateLimitBurst:      1000,
	}

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"success","data":{"items":[{"_id":"1","name":"Action","slug":"action"}]}}`)
	}))
	t.Cleanup(upstream.Close)

	client := httpclient.New(upstream.URL, httpclient.WithLogger(logger))
	comics := otruyen.NewService(client, "https://img.example.com", logger)
	lib := library.New(kv.NewMemoryStore(), library.WithLogger(logger))

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		StorageName:  "memory",
		CheckStorage: checkStorage,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server := api.NewServer(ctx, cfg, logger, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Catalog:   catalog.NewHandler(comics, client),
		Library:   library.NewHandler(lib, comics, nil),
	})

	httpServer := httptest.NewServer(server.Handler())
	t.Cleanup(httpServer.Close)
	return httpServer, lib
}

/*
TestHealth_Probes reports readiness from the storage check.
*/
func TestHealth_Probes(t *testing.T) {
	healthy, _ := newTestServer(t, func(context.Context) error { return nil })
	broken, _ := newTestServer(t, func(context.Context) error { return errors.New("disk gone") })

	tests := []struct {
		name   string
		url    string
		status int
		state  string
	}{
		{"liveness", healthy.URL + "/health", http.StatusOK, "ok"},
		{"ready", healthy.URL + "/ready", http.StatusOK, "ready"},
		{"degraded", broken.URL + "/ready", http.StatusServiceUnavailable, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response, err := http.Get(tt.url)
			require.NoError(t, err)
			defer response.Body.Close()

			var body struct {
				Data struct {
					Status string `json:"status"`
				} `json:"data"`
			}
			require.NoError(t, json.NewDecoder(response.Body).Decode(&body))
			assert.Equal(t, tt.status, response.StatusCode)
			assert.Equal(t, tt.state, body.Data.Status)
		})
	}
}

/*
TestRoutes_Mounted reaches both the catalogue and the library under /api/v1.
*/
func TestRoutes_Mounted(t *testing.T) {
	server, _ := newTestServer(t, nil)

	for _, path := range []string{"/api/v1/categories", "/api/v1/me/preferences", "/api/v1/me/favorites"} {
		response, err := http.Get(server.URL + path)
		require.NoError(t, err)
		response.Body.Close()
		assert.Equal(t, http.StatusOK, response.StatusCode, path)
		assert.NotEmpty(t, response.Header.Get("X-Request-ID"), path)
	}

	response, err := http.Get(server.URL + "/api/v1/nope/nope/nope")
	require.NoError(t, err)
	response.Body.Close()
	assert.Equal(t, http.StatusNotFound, response.StatusCode)
}

/*
TestEvents_ThroughMiddleware upgrades through the logging and CORS chain.
*/
func TestEvents_ThroughMiddleware(t *testing.T) {
	server, lib := newTestServer(t, nil)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/api/v1/me/events", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return lib.Events().Subscribers() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, lib.History.Clear(context.Background()))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event library.Event
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, library.FamilyHistory, event.Family)
	assert.Equal(t, library.OpClear, event.Op)
}
