// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps values in a map. Values are copied on the way in and out.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryStore returns an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

// Get implements [Store].
func (store *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	store.mu.RLock()
	defer store.mu.RUnlock()

	value, found := store.values[key]
	if !found {
		return nil, ErrNotFound
	}
	return slices.Clone(value), nil
}

// Set implements [Store].
func (store *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}

	store.mu.Lock()
	store.values[key] = slices.Clone(value)
	store.mu.Unlock()
	return nil
}

// Delete implements [Store].
func (store *MemoryStore) Delete(_ context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	store.mu.Lock()
	delete(store.values, key)
	store.mu.Unlock()
	return nil
}

// Ping implements [Backend].
func (store *MemoryStore) Ping(context.Context) error { return nil }

// Close implements [Backend].
func (store *MemoryStore) Close() error { return nil }
