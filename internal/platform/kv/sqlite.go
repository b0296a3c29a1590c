// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	// Registers the pure-Go "sqlite" driver.
	_ "modernc.org/sqlite"

	"github.com/taibuivan/truyennet/internal/platform/dberr"
)

var (
	sqliteSchema = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	%s TEXT PRIMARY KEY,
	%s BLOB NOT NULL,
	%s INTEGER NOT NULL
)`, kvTable.Table, kvTable.Key, kvTable.Value, kvTable.UpdatedAt)

	sqliteSelectValue = fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ?`, kvTable.Value, kvTable.Table, kvTable.Key)

	sqliteUpsertValue = fmt.Sprintf(`INSERT INTO %[1]s (%[2]s, %[3]s, %[4]s) VALUES (?, ?, ?)
		 ON CONFLICT(%[2]s) DO UPDATE SET %[3]s = excluded.%[3]s, %[4]s = excluded.%[4]s`,
		kvTable.Table, kvTable.Key, kvTable.Value, kvTable.UpdatedAt)

	sqliteDeleteValue = fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, kvTable.Table, kvTable.Key)
)

// SQLiteStore keeps values in a single SQLite table.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path and ensures the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("kv: sqlite path is required")
	}

	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("kv: create sqlite dir: %w", err)
	}

	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("kv: open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("kv: ping sqlite db: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("kv: create sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Get implements [Store].
func (store *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	var value []byte
	err := store.db.QueryRowContext(ctx, sqliteSelectValue, key).Scan(&value)
	if dberr.IsNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kv: sqlite get %s: %w", key, err)
	}
	return value, nil
}

// Set implements [Store].
func (store *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}

	_, err := store.db.ExecContext(ctx, sqliteUpsertValue, key, value, store.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("kv: sqlite set %s: %w", key, err)
	}
	return nil
}

// Delete implements [Store].
func (store *SQLiteStore) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	if _, err := store.db.ExecContext(ctx, sqliteDeleteValue, key); err != nil {
		return fmt.Errorf("kv: sqlite delete %s: %w", key, err)
	}
	return nil
}

// Ping implements [Backend].
func (store *SQLiteStore) Ping(ctx context.Context) error {
	if err := store.db.PingContext(ctx); err != nil {
		return fmt.Errorf("kv: sqlite ping: %w", err)
	}
	return nil
}

// Close implements [Backend].
func (store *SQLiteStore) Close() error {
	return store.db.Close()
}
