// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"context"
	"strconv"

	"github.com/taibuivan/truyennet/internal/platform/validate"
	"github.com/taibuivan/truyennet/pkg/slice"
	"github.com/taibuivan/truyennet/pkg/uuid"
)

// BookmarkStore holds page bookmarks, newest first, uncapped.
type BookmarkStore struct {
	items *collection[Bookmark]
}

func bookmarkKey(b Bookmark) string {
	return b.ComicSlug + "\x00" + strconv.FormatFloat(b.ChapterNumber, 'f', -1, 64) + "\x00" + strconv.Itoa(b.PageNumber)
}

func validateBookmark(b Bookmark) error {
	v := &validate.Validator{}
	v.Required("comicSlug", b.ComicSlug).
		NonNegative("chapterNumber", b.ChapterNumber).
		Custom("pageNumber", b.PageNumber < 0, "Must not be negative")
	return v.Err()
}

// Add stores b first, replacing a bookmark on the same page. A missing ID is
// generated and a zero CreatedAt is set to now. The stored bookmark is returned.
func (s *BookmarkStore) Add(ctx context.Context, b Bookmark) (Bookmark, error) {
	if err := validateBookmark(b); err != nil {
		return Bookmark{}, err
	}

	if b.ID == "" {
		b.ID = uuid.New()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = s.items.now()
	}

	if err := s.items.Upsert(ctx, b); err != nil {
		return Bookmark{}, err
	}
	return b, nil
}

// Remove deletes the bookmark with id and reports whether it existed.
func (s *BookmarkStore) Remove(ctx context.Context, id string) (bool, error) {
	removed, err := s.items.RemoveFunc(ctx, func(b Bookmark) bool { return b.ID == id })
	return removed > 0, err
}

// ForComic returns the bookmarks of one comic, newest first.
func (s *BookmarkStore) ForComic(ctx context.Context, comicSlug string) ([]Bookmark, error) {
	items, err := s.items.All(ctx)
	if err != nil {
		return nil, err
	}
	return slice.Filter(items, func(b Bookmark) bool { return b.ComicSlug == comicSlug }), nil
}

// All returns every bookmark, newest first.
func (s *BookmarkStore) All(ctx context.Context) ([]Bookmark, error) {
	return s.items.All(ctx)
}

// Clear deletes every bookmark.
func (s *BookmarkStore) Clear(ctx context.Context) error {
	return s.items.Clear(ctx)
}
