// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/truyennet/internal/platform/kv"
	"github.com/taibuivan/truyennet/pkg/slice"
)

// collection is one record family persisted as a single JSON array under key.
//
// Every read-modify-write runs under mu, so concurrent requests never lose an
// update. Order is most-recent-first by insertion.
type collection[T any] struct {
	store    kv.Store
	key      string
	family   Family
	identity func(T) string
	limit    int // 0 means uncapped
	logger   *slog.Logger
	broker   *Broker
	now      func() time.Time

	mu sync.Mutex
}

// load reads the array; a missing or corrupt value yields an empty slice.
func (c *collection[T]) load(ctx context.Context) ([]T, error) {
	var items []T
	if _, err := readJSON(ctx, c.store, c.logger, c.key, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c *collection[T]) save(ctx context.Context, items []T, op Op) error {
	if err := writeJSON(ctx, c.store, c.key, items); err != nil {
		return err
	}
	c.publish(op)
	return nil
}

func (c *collection[T]) publish(op Op) {
	c.broker.Publish(Event{Family: c.family, Op: op, At: c.now()})
}

// All returns every record, most recent first.
func (c *collection[T]) All(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

// Upsert drops any record with the same identity, puts item first and
// truncates to the cap.
func (c *collection[T]) Upsert(ctx context.Context, item T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return err
	}

	return c.save(ctx, c.prepend(items, item), OpUpsert)
}

func (c *collection[T]) prepend(items []T, item T) []T {
	return c.dedupe(append([]T{item}, items...))
}

func (c *collection[T]) sameAs(item T) func(T) bool {
	id := c.identity(item)
	return func(existing T) bool { return c.identity(existing) == id }
}

// RemoveFunc deletes every record matching and reports how many went away.
// Nothing is written when nothing matched.
func (c *collection[T]) RemoveFunc(ctx context.Context, match func(T) bool) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return 0, err
	}

	kept := slice.Reject(items, match)
	removed := len(items) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	return removed, c.save(ctx, kept, OpRemove)
}

// Toggle removes the record with item's identity if present, otherwise
// inserts item first. It reports whether the record is present afterwards.
func (c *collection[T]) Toggle(ctx context.Context, item T) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return false, err
	}

	kept := slice.Reject(items, c.sameAs(item))
	if len(kept) < len(items) {
		return false, c.save(ctx, kept, OpRemove)
	}

	return true, c.save(ctx, c.prepend(items, item), OpUpsert)
}

// Replace overwrites the family with items, keeping the first record of each
// identity and applying the cap.
func (c *collection[T]) Replace(ctx context.Context, items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.save(ctx, c.dedupe(items), OpReplace)
}

// dedupe keeps the first record of each identity and applies the cap.
func (c *collection[T]) dedupe(items []T) []T {
	return slice.Take(slice.UniqueBy(items, c.identity), c.limit)
}

// Clear deletes the storage key entirely.
func (c *collection[T]) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Delete(ctx, c.key); err != nil {
		return err
	}
	c.publish(OpClear)
	return nil
}
