// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/truyennet/internal/platform/kv"
)

// backends returns every backend that runs without external services.
func backends(t *testing.T) map[string]kv.Backend {
	t.Helper()

	fileStore, err := kv.NewFileStore(filepath.Join(t.TempDir(), "store"))
	require.NoError(t, err)

	sqliteStore, err := kv.OpenSQLite(filepath.Join(t.TempDir(), "db", "truyennet.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteStore.Close() })

	return map[string]kv.Backend{
		"memory": kv.NewMemoryStore(),
		"file":   fileStore,
		"sqlite": sqliteStore,
	}
}

/*
TestStoreContract runs the shared behavior against every local backend.
*/
func TestStoreContract(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, store.Ping(ctx))

			_, err := store.Get(ctx, "truyennet_favorites")
			assert.ErrorIs(t, err, kv.ErrNotFound)

			require.NoError(t, store.Set(ctx, "truyennet_favorites", []byte(`[{"comicSlug":"a"}]`)))
			got, err := store.Get(ctx, "truyennet_favorites")
			require.NoError(t, err)
			assert.Equal(t, `[{"comicSlug":"a"}]`, string(got))

			require.NoError(t, store.Set(ctx, "truyennet_favorites", []byte(`[]`)))
			got, err = store.Get(ctx, "truyennet_favorites")
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(got))

			// Corrupt payloads come back verbatim.
			require.NoError(t, store.Set(ctx, "truyennet_bookmarks", []byte(`{not json`)))
			got, err = store.Get(ctx, "truyennet_bookmarks")
			require.NoError(t, err)
			assert.Equal(t, `{not json`, string(got))

			require.NoError(t, store.Delete(ctx, "truyennet_favorites"))
			require.NoError(t, store.Delete(ctx, "truyennet_favorites"))
			_, err = store.Get(ctx, "truyennet_favorites")
			assert.ErrorIs(t, err, kv.ErrNotFound)

			assert.ErrorIs(t, store.Set(ctx, " ", []byte("x")), kv.ErrEmptyKey)
		})
	}
}

/*
TestMemoryStore_CopiesValues ensures callers cannot mutate stored bytes.
*/
func TestMemoryStore_CopiesValues(t *testing.T) {
	store := kv.NewMemoryStore()
	value := []byte("abc")

	require.NoError(t, store.Set(context.Background(), "k", value))
	value[0] = 'z'

	got, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

/*
TestFileStore_EscapesKeys keeps odd keys inside the data directory.
*/
func TestFileStore_EscapesKeys(t *testing.T) {
	dir := t.TempDir()
	store, err := kv.NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set(context.Background(), "../escape", []byte("1")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "..%2Fescape.json", entries[0].Name())
}

/*
TestSQLiteStore_PersistsAcrossReopen verifies durability of the SQLite backend.
*/
func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "truyennet.db")

	store, err := kv.OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), "truyennet_preferences", []byte(`{"theme":"dark"}`)))
	require.NoError(t, store.Close())

	reopened, err := kv.OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.Get(context.Background(), "truyennet_preferences")
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"dark"}`, string(got))
}
