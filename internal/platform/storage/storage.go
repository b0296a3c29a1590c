// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage opens the key-value backend selected by STORAGE_BACKEND.

Both the API server and truyenctl go through [Open], so the CLI always sees
the same data the server writes.
*/
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/truyennet/internal/platform/config"
	"github.com/taibuivan/truyennet/internal/platform/kv"
	"github.com/taibuivan/truyennet/internal/platform/migration"
	pgstore "github.com/taibuivan/truyennet/internal/platform/postgres"
	redisstore "github.com/taibuivan/truyennet/internal/platform/redis"
)

// Open connects to the configured backend. The caller owns the returned
// backend and must Close it.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (kv.Backend, error) {
	var (
		backend kv.Backend
		err     error
	)

	switch cfg.StorageBackend {
	case config.BackendMemory:
		backend = kv.NewMemoryStore()

	case config.BackendFile:
		backend, err = kv.NewFileStore(cfg.DataDir)

	case config.BackendSQLite:
		backend, err = kv.OpenSQLite(cfg.SQLitePath)

	case config.BackendRedis:
		client, connErr := redisstore.NewClient(ctx, cfg.RedisURL, logger)
		if connErr != nil {
			return nil, connErr
		}
		backend = kv.NewRedisStore(client)

	case config.BackendPostgres:
		if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, logger); err != nil {
			return nil, err
		}
		pool, connErr := pgstore.NewPool(ctx, cfg.DatabaseURL, logger)
		if connErr != nil {
			return nil, connErr
		}
		backend = kv.NewPostgresStore(pool)

	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.StorageBackend)
	}

	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", cfg.StorageBackend, err)
	}

	logger.InfoContext(ctx, "storage_backend_opened", slog.String("backend", cfg.StorageBackend))
	return backend, nil
}
