// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/taibuivan/truyennet/internal/otruyen"
	"github.com/taibuivan/truyennet/internal/platform/validate"
	"github.com/taibuivan/truyennet/pkg/slice"
)

// FavoriteStore holds the followed comics, keyed by comic slug, newest first, capped.
type FavoriteStore struct {
	items *collection[Favorite]
}

func favoriteKey(fav Favorite) string { return fav.ComicSlug }

// NewFavorite maps an API comic to a favorite added at the given time.
func NewFavorite(comic otruyen.Comic, addedAt time.Time) Favorite {
	updatedAt := parseAPITime(comic.UpdatedAt)

	fav := Favorite{
		ComicSlug: comic.Slug,
		ComicID:   comic.ID,
		ComicName: comic.Name,
		ThumbURL:  comic.ThumbURL,
		Status:    comic.Status,
		Category: slice.Map(comic.Category, func(category otruyen.Category) CategoryRef {
			return CategoryRef{ID: category.ID, Name: category.Name, Slug: category.Slug}
		}),
		UpdatedAt:        updatedAt,
		AddedAt:          addedAt,
		ChapterUpdatedAt: updatedAt,
	}

	if len(comic.ChaptersLatest) > 0 {
		fav.LatestChapter = comic.ChaptersLatest[0].ChapterName
	}

	return fav
}

func parseAPITime(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func validateFavorite(fav Favorite) error {
	v := &validate.Validator{}
	v.Required("comicSlug", fav.ComicSlug)
	return v.Err()
}

// Add puts fav first, replacing an existing entry for the same comic.
func (s *FavoriteStore) Add(ctx context.Context, fav Favorite) error {
	if err := validateFavorite(fav); err != nil {
		return err
	}
	if fav.AddedAt.IsZero() {
		fav.AddedAt = s.items.now()
	}
	return s.items.Upsert(ctx, fav)
}

// Toggle removes the comic if it is a favorite and adds it otherwise.
// It reports whether the comic is a favorite afterwards.
func (s *FavoriteStore) Toggle(ctx context.Context, fav Favorite) (bool, error) {
	if err := validateFavorite(fav); err != nil {
		return false, err
	}
	if fav.AddedAt.IsZero() {
		fav.AddedAt = s.items.now()
	}
	return s.items.Toggle(ctx, fav)
}

// Remove unfollows comicSlug and reports whether it was followed.
func (s *FavoriteStore) Remove(ctx context.Context, comicSlug string) (bool, error) {
	removed, err := s.items.RemoveFunc(ctx, func(fav Favorite) bool { return fav.ComicSlug == comicSlug })
	return removed > 0, err
}

// IsFavorite reports whether comicSlug is followed.
func (s *FavoriteStore) IsFavorite(ctx context.Context, comicSlug string) (bool, error) {
	items, err := s.items.All(ctx)
	if err != nil {
		return false, err
	}
	return slices.ContainsFunc(items, func(fav Favorite) bool { return fav.ComicSlug == comicSlug }), nil
}

// Count returns the number of favorites.
func (s *FavoriteStore) Count(ctx context.Context) (int, error) {
	items, err := s.items.All(ctx)
	return len(items), err
}

// All returns favorites in insertion order, newest first.
func (s *FavoriteStore) All(ctx context.Context) ([]Favorite, error) {
	return s.items.All(ctx)
}

// Clear unfollows everything.
func (s *FavoriteStore) Clear(ctx context.Context) error {
	return s.items.Clear(ctx)
}

// SortByLatestUpdate returns a copy ordered by the most recent of
// ChapterUpdatedAt, then UpdatedAt, then AddedAt, newest first. It is a
// display ordering; storage order is unaffected.
func SortByLatestUpdate(favorites []Favorite) []Favorite {
	sorted := slices.Clone(favorites)
	slices.SortStableFunc(sorted, func(a, b Favorite) int {
		return cmp.Compare(latestUpdate(b).UnixNano(), latestUpdate(a).UnixNano())
	})
	return sorted
}

func latestUpdate(fav Favorite) time.Time {
	switch {
	case !fav.ChapterUpdatedAt.IsZero():
		return fav.ChapterUpdatedAt
	case !fav.UpdatedAt.IsZero():
		return fav.UpdatedAt
	default:
		return fav.AddedAt
	}
}
