// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/truyennet/internal/platform/kv"
)

// readJSON decodes the value under key into target.
//
// A missing key reports found=false. A value that does not decode is logged,
// deleted, and also reported as found=false: corrupt data falls back to the
// empty/default value instead of failing the read.
func readJSON(ctx context.Context, store kv.Store, logger *slog.Logger, key string, target any) (bool, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("library: read %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, target); err != nil {
		logger.WarnContext(ctx, "corrupt_record_discarded",
			slog.String("key", key),
			slog.Int("bytes", len(raw)),
			slog.Any("error", err),
		)
		if delErr := store.Delete(ctx, key); delErr != nil {
			return false, fmt.Errorf("library: discard %s: %w", key, delErr)
		}
		return false, nil
	}

	return true, nil
}

// writeJSON serializes value and stores it under key.
func writeJSON(ctx context.Context, store kv.Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("library: encode %s: %w", key, err)
	}
	if err := store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("library: write %s: %w", key, err)
	}
	return nil
}
