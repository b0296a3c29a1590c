// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package kv provides the flat key/value storage that holds reader data.

Each key holds one opaque blob, exactly like browser local storage holds one
serialized string per key. Values are stored verbatim: a corrupt payload comes
back as written so the caller can observe and discard it.

Backends:

  - [MemoryStore]: process memory, for tests and throwaway sessions.
  - [FileStore]: one file per key under a directory.
  - [SQLiteStore]: a single-table SQLite database (modernc.org/sqlite).
  - [RedisStore]: plain Redis string keys.
  - [PostgresStore]: the kv_store table, created by migrations.
*/
package kv

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("kv: key not found")

// ErrEmptyKey is returned for blank keys.
var ErrEmptyKey = errors.New("kv: key is required")

// Store is the minimal storage contract the reader library depends on.
type Store interface {
	// Get returns the stored bytes or [ErrNotFound].
	Get(ctx context.Context, key string) ([]byte, error)

	// Set overwrites the value under key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Backend is a [Store] with a lifecycle, as constructed by the composition root.
type Backend interface {
	Store

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases connections or handles.
	Close() error
}

func checkKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	return nil
}
