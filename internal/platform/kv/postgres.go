// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/truyennet/internal/platform/database/schema"
	"github.com/taibuivan/truyennet/internal/platform/dberr"
	"github.com/taibuivan/truyennet/internal/platform/postgres"
)

var (
	kvTable = schema.KVStore

	pgSelectValue = fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, kvTable.Value, kvTable.Table, kvTable.Key)

	pgUpsertValue = fmt.Sprintf(`INSERT INTO %[1]s (%[2]s, %[3]s, %[4]s) VALUES ($1, $2, now())
		 ON CONFLICT (%[2]s) DO UPDATE SET %[3]s = EXCLUDED.%[3]s, %[4]s = now()`,
		kvTable.Table, kvTable.Key, kvTable.Value, kvTable.UpdatedAt)

	pgDeleteValue = fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, kvTable.Table, kvTable.Key)
)

// PostgresStore keeps values in the kv_store table (see data/migrations).
//
// The value column is TEXT rather than JSONB so that whatever was written,
// including corrupt payloads, is returned byte for byte.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps a connected pool. The store owns it from then on.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Get implements [Store].
func (store *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	var value string
	err := store.pool.QueryRow(ctx, pgSelectValue, key).Scan(&value)
	if dberr.IsNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kv: postgres get %s: %w", key, err)
	}
	return []byte(value), nil
}

// Set implements [Store].
func (store *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}

	_, err := store.pool.Exec(ctx, pgUpsertValue, key, string(value))
	if err != nil {
		return fmt.Errorf("kv: postgres set %s: %w", key, dberr.Describe(err))
	}
	return nil
}

// Delete implements [Store].
func (store *PostgresStore) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	if _, err := store.pool.Exec(ctx, pgDeleteValue, key); err != nil {
		return fmt.Errorf("kv: postgres delete %s: %w", key, dberr.Describe(err))
	}
	return nil
}

// Ping implements [Backend].
func (store *PostgresStore) Ping(ctx context.Context) error {
	return postgres.Ping(ctx, store.pool)
}

// Close implements [Backend].
func (store *PostgresStore) Close() error {
	store.pool.Close()
	return nil
}
