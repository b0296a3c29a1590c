// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package library is the reader's local persistence store: preferences,
reading history, favorites and bookmarks.

Each record family lives under its own key in a [kv.Store], serialized as one
JSON document, the same layout a browser keeps in local storage:

	<prefix>preferences      object
	<prefix>reading_history  array, capped at 100
	<prefix>favorites        array, capped at 500
	<prefix>bookmarks        array, uncapped

Rules enforced at write time:

  - Dedup-by-replace: writing a record whose identity already exists removes
    the old one first.
  - Most-recent-first: new records go to index 0.
  - Caps: the oldest records beyond the cap are dropped.

A missing or corrupt key reads as empty (or defaults). Corrupt values are
logged as "corrupt_record_discarded" and deleted.

One [Library] is built at startup and shared by every consumer. After each
successful write it publishes an [Event] on its [Broker].
*/
package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/truyennet/internal/platform/apperr"
	"github.com/taibuivan/truyennet/internal/platform/constants"
	"github.com/taibuivan/truyennet/internal/platform/kv"
	"github.com/taibuivan/truyennet/pkg/uuid"
)

// Key suffixes appended to the storage prefix.
const (
	keyPreferences = "preferences"
	keyHistory     = "reading_history"
	keyFavorites   = "favorites"
	keyBookmarks   = "bookmarks"
)

// Library groups the four record stores over one backend.
type Library struct {
	Preferences *PreferenceStore
	History     *HistoryStore
	Favorites   *FavoriteStore
	Bookmarks   *BookmarkStore

	store  kv.Store
	prefix string
	broker *Broker
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a [Library].
type Option func(*Library)

// WithPrefix sets the storage key prefix (default "truyennet_").
func WithPrefix(prefix string) Option {
	return func(l *Library) { l.prefix = prefix }
}

// WithLogger sets the logger used for corrupt-data diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Library) { l.logger = logger }
}

// WithClock injects the time source for timestamps and events.
func WithClock(now func() time.Time) Option {
	return func(l *Library) { l.now = now }
}

// WithBroker shares an existing event broker.
func WithBroker(broker *Broker) Option {
	return func(l *Library) { l.broker = broker }
}

// New builds a [Library] on store.
func New(store kv.Store, opts ...Option) *Library {
	l := &Library{
		store:  store,
		prefix: constants.StoragePrefix,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.broker == nil {
		l.broker = NewBroker()
	}

	l.Preferences = &PreferenceStore{
		store:  store,
		key:    l.Key(keyPreferences),
		logger: l.logger,
		broker: l.broker,
		now:    l.now,
	}
	l.History = &HistoryStore{items: newCollection(l, keyHistory, FamilyHistory, historyKey, constants.MaxReadingHistory)}
	l.Favorites = &FavoriteStore{items: newCollection(l, keyFavorites, FamilyFavorites, favoriteKey, constants.MaxFavorites)}
	l.Bookmarks = &BookmarkStore{items: newCollection(l, keyBookmarks, FamilyBookmarks, bookmarkKey, 0)}

	return l
}

func newCollection[T any](l *Library, suffix string, family Family, identity func(T) string, limit int) *collection[T] {
	return &collection[T]{
		store:    l.store,
		key:      l.Key(suffix),
		family:   family,
		identity: identity,
		limit:    limit,
		logger:   l.logger,
		broker:   l.broker,
		now:      l.now,
	}
}

// Key returns the full storage key for a family suffix.
func (l *Library) Key(suffix string) string {
	return l.prefix + suffix
}

// Keys returns every storage key the library owns.
func (l *Library) Keys() []string {
	return []string{
		l.Key(keyPreferences),
		l.Key(keyHistory),
		l.Key(keyFavorites),
		l.Key(keyBookmarks),
	}
}

// Events returns the broker that receives write notifications.
func (l *Library) Events() *Broker {
	return l.broker
}

// # Backup

// Snapshot reads every family into one document.
func (l *Library) Snapshot(ctx context.Context) (Snapshot, error) {
	prefs, err := l.Preferences.Get(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	favorites, err := l.Favorites.All(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	history, err := l.History.All(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	bookmarks, err := l.Bookmarks.All(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		Preferences:    &prefs,
		Favorites:      favorites,
		ReadingHistory: history,
		Bookmarks:      bookmarks,
	}, nil
}

// Export returns the snapshot as indented JSON.
func (l *Library) Export(ctx context.Context) ([]byte, error) {
	snapshot, err := l.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("library: encode export: %w", err)
	}
	return data, nil
}

// ErrInvalidBackup is returned when an import document is malformed.
var ErrInvalidBackup = apperr.ValidationError("Invalid data format")

// Import replaces the stored data with an exported document.
//
// preferences, favorites and readingHistory are required; bookmarks is
// optional and left untouched when absent. Every record is validated with the
// same rules as the single-record writes, and nothing is written unless the
// whole document is valid. The families are written one after another; if a
// write fails, the state read before the import is written back and both
// errors are returned.
func (l *Library) Import(ctx context.Context, data []byte) error {
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return ErrInvalidBackup
	}

	if err := validateSnapshot(snapshot); err != nil {
		return err
	}

	for i := range snapshot.Bookmarks {
		if snapshot.Bookmarks[i].ID == "" {
			snapshot.Bookmarks[i].ID = uuid.New()
		}
	}

	previous, err := l.Snapshot(ctx)
	if err != nil {
		return err
	}

	if err := l.apply(ctx, snapshot); err != nil {
		restoreErr := l.apply(ctx, previous)
		l.logger.ErrorContext(ctx, "library_import_failed",
			slog.Any("error", err),
			slog.Any("restore_error", restoreErr),
		)
		return errors.Join(err, restoreErr)
	}

	l.logger.InfoContext(ctx, "library_imported",
		slog.Int("favorites", len(snapshot.Favorites)),
		slog.Int("history", len(snapshot.ReadingHistory)),
		slog.Int("bookmarks", len(snapshot.Bookmarks)),
	)
	return nil
}

// validateSnapshot applies the per-record rules to a whole backup document.
func validateSnapshot(snapshot Snapshot) error {
	if snapshot.Preferences == nil || snapshot.Favorites == nil || snapshot.ReadingHistory == nil {
		return ErrInvalidBackup
	}

	if err := validatePreferences(*snapshot.Preferences); err != nil {
		return err
	}
	for _, fav := range snapshot.Favorites {
		if err := validateFavorite(fav); err != nil {
			return err
		}
	}
	for _, item := range snapshot.ReadingHistory {
		if err := validateHistoryItem(item); err != nil {
			return err
		}
	}
	for _, b := range snapshot.Bookmarks {
		if err := validateBookmark(b); err != nil {
			return err
		}
	}
	return nil
}

// apply writes every family present in snapshot; nil bookmarks are skipped.
func (l *Library) apply(ctx context.Context, snapshot Snapshot) error {
	if err := l.Preferences.Set(ctx, *snapshot.Preferences); err != nil {
		return err
	}
	if err := l.Favorites.items.Replace(ctx, snapshot.Favorites); err != nil {
		return err
	}
	if err := l.History.items.Replace(ctx, snapshot.ReadingHistory); err != nil {
		return err
	}
	if snapshot.Bookmarks != nil {
		return l.Bookmarks.items.Replace(ctx, snapshot.Bookmarks)
	}
	return nil
}

// ClearAll deletes every key the library owns.
func (l *Library) ClearAll(ctx context.Context) error {
	return errors.Join(
		l.Preferences.Reset(ctx),
		l.History.Clear(ctx),
		l.Favorites.Clear(ctx),
		l.Bookmarks.Clear(ctx),
	)
}
