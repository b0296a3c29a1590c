// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/truyennet/internal/platform/kv"
	"github.com/taibuivan/truyennet/internal/platform/validate"
	"github.com/taibuivan/truyennet/pkg/pointer"
)

// PreferenceStore persists the [Preferences] singleton.
type PreferenceStore struct {
	store  kv.Store
	key    string
	logger *slog.Logger
	broker *Broker
	now    func() time.Time

	mu sync.Mutex
}

// Get returns the stored preferences. Fields absent from storage keep their
// defaults; a missing or corrupt record yields [DefaultPreferences].
func (s *PreferenceStore) Get(ctx context.Context) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *PreferenceStore) load(ctx context.Context) (Preferences, error) {
	prefs := DefaultPreferences()
	found, err := readJSON(ctx, s.store, s.logger, s.key, &prefs)
	if err != nil {
		return Preferences{}, err
	}
	if !found {
		return DefaultPreferences(), nil
	}
	return prefs, nil
}

// Set validates prefs and overwrites the stored record wholesale.
func (s *PreferenceStore) Set(ctx context.Context, prefs Preferences) error {
	if err := validatePreferences(prefs); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, prefs, OpUpsert)
}

// Patch applies the set fields of patch and returns the result.
func (s *PreferenceStore) Patch(ctx context.Context, patch PreferencesPatch) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(ctx)
	if err != nil {
		return Preferences{}, err
	}

	next := Preferences{
		Theme:           pointer.Fallback(patch.Theme, current.Theme),
		ReadingMode:     pointer.Fallback(patch.ReadingMode, current.ReadingMode),
		AutoNextChapter: pointer.Fallback(patch.AutoNextChapter, current.AutoNextChapter),
		ImageQuality:    pointer.Fallback(patch.ImageQuality, current.ImageQuality),
		Language:        pointer.Fallback(patch.Language, current.Language),
	}

	if err := validatePreferences(next); err != nil {
		return Preferences{}, err
	}

	if err := s.save(ctx, next, OpUpsert); err != nil {
		return Preferences{}, err
	}
	return next, nil
}

// Reset deletes the stored record so [PreferenceStore.Get] returns defaults again.
func (s *PreferenceStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, s.key); err != nil {
		return err
	}
	s.broker.Publish(Event{Family: FamilyPreferences, Op: OpClear, At: s.now()})
	return nil
}

func (s *PreferenceStore) save(ctx context.Context, prefs Preferences, op Op) error {
	if err := writeJSON(ctx, s.store, s.key, prefs); err != nil {
		return err
	}
	s.broker.Publish(Event{Family: FamilyPreferences, Op: op, At: s.now()})
	return nil
}

func validatePreferences(prefs Preferences) error {
	v := &validate.Validator{}
	v.OneOf("theme", prefs.Theme, ThemeLight, ThemeDark, ThemeSystem).
		OneOf("readingMode", prefs.ReadingMode, ReadingModeScroll, ReadingModePage).
		OneOf("imageQuality", prefs.ImageQuality, ImageQualityLow, ImageQualityMedium, ImageQualityHigh).
		OneOf("language", prefs.Language, LanguageVietnamese, LanguageEnglish)
	return v.Err()
}
