// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/truyennet/internal/cli"
	"github.com/taibuivan/truyennet/internal/library"
	"github.com/taibuivan/truyennet/internal/platform/config"
	"github.com/taibuivan/truyennet/internal/platform/kv"
)

type harness struct {
	store *kv.MemoryStore
	cfg   *config.Config
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{
		store: kv.NewMemoryStore(),
		cfg: &config.Config{
			StoragePrefix: "truyennet_",
			CacheTTL:      time.Minute,
			HTTPTimeout:   time.Second,
		},
	}
}

// run executes one truyenctl invocation and returns its stdout.
func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := cli.NewRootCommand(cli.Deps{
		Config: h.cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Out:    &out,
		OpenStore: func(context.Context) (kv.Backend, error) {
			return h.store, nil
		},
	})
	root.SetArgs(args)
	root.SetErr(io.Discard)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) library() *library.Library {
	return library.New(h.store)
}

/*
TestPrefs_SetAndGet patches preferences from key=value pairs.
*/
func TestPrefs_SetAndGet(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "prefs", "set", "theme=dark", "autoNextChapter=false")
	require.NoError(t, err)

	out, err := h.run(t, "prefs", "get")
	require.NoError(t, err)

	var prefs library.Preferences
	require.NoError(t, json.Unmarshal([]byte(out), &prefs))
	assert.Equal(t, library.ThemeDark, prefs.Theme)
	assert.False(t, prefs.AutoNextChapter)
	assert.Equal(t, library.ReadingModeScroll, prefs.ReadingMode)

	tests := []struct {
		name string
		args []string
	}{
		{"missing_equals", []string{"prefs", "set", "theme"}},
		{"unknown_key", []string{"prefs", "set", "font=serif"}},
		{"bad_bool", []string{"prefs", "set", "autoNextChapter=maybe"}},
		{"bad_value", []string{"prefs", "set", "theme=neon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

/*
TestExportImport_File round-trips a backup through the filesystem.
*/
func TestExportImport_File(t *testing.T) {
	source := newHarness(t)
	ctx := context.Background()
	require.NoError(t, source.library().Favorites.Add(ctx, library.Favorite{ComicSlug: "one-piece", ComicName: "One Piece"}))

	path := filepath.Join(t.TempDir(), "backup.json")
	out, err := source.run(t, "export", path)
	require.NoError(t, err)
	assert.Contains(t, out, "exported to")

	target := newHarness(t)
	_, err = target.run(t, "import", path)
	require.NoError(t, err)

	out, err = target.run(t, "favorites")
	require.NoError(t, err)
	assert.Contains(t, out, "one-piece")
	assert.Contains(t, out, "One Piece")

	require.NoError(t, os.WriteFile(path, []byte(`{"favorites":[]}`), 0o644))
	_, err = target.run(t, "import", path)
	assert.Error(t, err)
}

/*
TestClear_RequiresConfirmation keeps data unless --yes is passed.
*/
func TestClear_RequiresConfirmation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.library().History.Add(ctx, library.HistoryItem{ComicSlug: "a", ChapterNumber: 12.5}))

	_, err := h.run(t, "clear")
	require.Error(t, err)

	out, err := h.run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "12.5")

	_, err = h.run(t, "clear", "--yes")
	require.NoError(t, err)

	count, err := h.library().History.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, count)
}

/*
TestFetch_PrintsIndentedJSON sends params through the cache client.
*/
func TestFetch_PrintsIndentedJSON(t *testing.T) {
	queries := make(chan string, 1)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries <- r.URL.RawQuery
		_, _ = w.Write([]byte(`{"status":"success","data":{"items":[]}}`))
	}))
	defer upstream.Close()

	h := newHarness(t)
	h.cfg.APIBaseURL = upstream.URL

	out, err := h.run(t, "fetch", "/danh-sach/truyen-hot", "--param", "page=2")
	require.NoError(t, err)
	assert.Equal(t, "page=2", <-queries)
	assert.Contains(t, out, "\n  \"status\": \"success\"")
}
