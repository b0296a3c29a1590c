// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"context"
	"strconv"

	"github.com/taibuivan/truyennet/internal/platform/validate"
)

// HistoryStore is the reading history: one entry per (comic, chapter),
// newest first, capped.
type HistoryStore struct {
	items *collection[HistoryItem]
}

func historyKey(item HistoryItem) string {
	return item.ComicSlug + "\x00" + strconv.FormatFloat(item.ChapterNumber, 'f', -1, 64)
}

func validateHistoryItem(item HistoryItem) error {
	v := &validate.Validator{}
	v.Required("comicSlug", item.ComicSlug).
		NonNegative("chapterNumber", item.ChapterNumber)
	return v.Err()
}

// Add records item as the most recent read, replacing any earlier entry for
// the same chapter. ReadAt defaults to now.
func (s *HistoryStore) Add(ctx context.Context, item HistoryItem) error {
	if err := validateHistoryItem(item); err != nil {
		return err
	}

	if item.ReadAt.IsZero() {
		item.ReadAt = s.items.now()
	}

	return s.items.Upsert(ctx, item)
}

// All returns the history, most recent first.
func (s *HistoryStore) All(ctx context.Context) ([]HistoryItem, error) {
	return s.items.All(ctx)
}

// LastRead returns the most recent entry for comicSlug.
func (s *HistoryStore) LastRead(ctx context.Context, comicSlug string) (HistoryItem, bool, error) {
	items, err := s.items.All(ctx)
	if err != nil {
		return HistoryItem{}, false, err
	}

	for _, item := range items {
		if item.ComicSlug == comicSlug {
			return item, true, nil
		}
	}
	return HistoryItem{}, false, nil
}

// Remove deletes the entry for one chapter, or every entry of the comic when
// chapter is nil. It returns how many entries were removed.
func (s *HistoryStore) Remove(ctx context.Context, comicSlug string, chapter *float64) (int, error) {
	return s.items.RemoveFunc(ctx, func(item HistoryItem) bool {
		if item.ComicSlug != comicSlug {
			return false
		}
		return chapter == nil || item.ChapterNumber == *chapter
	})
}

// Clear deletes the whole history.
func (s *HistoryStore) Clear(ctx context.Context) error {
	return s.items.Clear(ctx)
}

// ReadingProgress returns how far through a chapter the reader is, in
// percent rounded to the nearest integer. Zero pages means zero progress.
func ReadingProgress(currentPage, totalPages int) int {
	if totalPages <= 0 {
		return 0
	}
	return (currentPage*100 + totalPages/2) / totalPages
}
