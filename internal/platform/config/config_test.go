// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/truyennet/internal/platform/config"
)

/*
TestLoad_Defaults verifies the zero-configuration startup path.
*/
func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "https://otruyenapi.com/v1/api", cfg.APIBaseURL)
	assert.Equal(t, "https://img.otruyenapi.com/uploads/comics", cfg.CDNImageURL)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, config.BackendFile, cfg.StorageBackend)
	assert.Equal(t, "truyennet_", cfg.StoragePrefix)
	assert.True(t, cfg.IsDevelopment())
}

/*
TestLoad_Overrides checks that environment values win over defaults.
*/
func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.BackendSQLite, cfg.StorageBackend)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.True(t, cfg.IsProduction())
}

/*
TestValidate_BackendRequirements tests backend-specific required settings.
*/
func TestValidate_BackendRequirements(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		hasError bool
	}{
		{"memory_ok", config.Config{StorageBackend: config.BackendMemory, CacheTTL: time.Minute}, false},
		{"memory_in_production", config.Config{StorageBackend: config.BackendMemory, Environment: "production", CacheTTL: time.Minute}, true},
		{"redis_missing_url", config.Config{StorageBackend: config.BackendRedis, CacheTTL: time.Minute}, true},
		{"redis_ok", config.Config{StorageBackend: config.BackendRedis, RedisURL: "redis://localhost:6379/0", CacheTTL: time.Minute}, false},
		{"postgres_missing_dsn", config.Config{StorageBackend: config.BackendPostgres, CacheTTL: time.Minute}, true},
		{"sqlite_missing_path", config.Config{StorageBackend: config.BackendSQLite, CacheTTL: time.Minute}, true},
		{"unknown_backend", config.Config{StorageBackend: "etcd", CacheTTL: time.Minute}, true},
		{"zero_ttl", config.Config{StorageBackend: config.BackendMemory}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.hasError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
