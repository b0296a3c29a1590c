// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// The comic API reports only { currentPage, totalItems, totalItemsPerPage }.
// Everything a reader needs beyond that (page count, visible item range) is
// derived here so handlers and the CLI agree on the arithmetic.
package pagination

import (
	"math"
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the number of items per page used by the comic API.
	DefaultLimit = 24
	// MaxLimit is the upper bound for items per page on local collections.
	MaxLimit = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
	// MaxPage caps the requested page; no collection or upstream listing gets near it.
	MaxPage = 100_000
)

// Params holds the parsed page and limit from a request's query string.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the slice offset derived from [Page] and [Limit]. It
// saturates at math.MaxInt instead of overflowing.
func (p Params) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
	FirstItem  int `json:"first_item"`
	LastItem   int `json:"last_item"`
}

// NewMeta constructs pagination metadata for a response.
//
// TotalPages is the ceiling of total/limit; the visible item range follows [ItemRange].
func NewMeta(page, limit, total int) Meta {
	first, last := ItemRange(page, limit, total)

	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: TotalPages(total, limit),
		FirstItem:  first,
		LastItem:   last,
	}
}

// TotalPages returns ceil(total / perPage), or 0 when perPage is not positive.
func TotalPages(total, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// ItemRange returns the 1-based inclusive positions of the first and last
// item shown on page. It returns (0, 0) when the page holds nothing.
//
// Example:
//
//	ItemRange(2, 24, 45) // 25, 45
func ItemRange(page, perPage, total int) (first, last int) {
	if page < 1 || perPage <= 0 || total <= 0 {
		return 0, 0
	}

	if page-1 > (total-1)/perPage {
		return 0, 0
	}

	first = (page-1)*perPage + 1
	last = min(first+perPage-1, total)
	return first, last
}

// Window returns the sub-slice of items visible on the page described by p.
func Window[T any](items []T, p Params) []T {
	start := p.Offset()
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := start + min(p.Limit, len(items)-start)
	return items[start:end]
}

// FromRequest parses "page" and "limit" query parameters from an HTTP request.
//
// # Clamping
//
// Invalid or negative pages fall back to [DefaultPage] and pages above
// [MaxPage] are capped; limits outside 1..[MaxLimit] fall back to [DefaultLimit].
func FromRequest(r *http.Request) Params {
	return Params{Page: Page(r), Limit: Limit(r, DefaultLimit, MaxLimit)}
}

// Page parses the "page" query parameter, defaulting to [DefaultPage] and
// capped at [MaxPage].
func Page(r *http.Request) int {
	page := IntQuery(r, "page", DefaultPage)
	if page < 1 {
		return DefaultPage
	}
	return min(page, MaxPage)
}

// Limit parses the "limit" query parameter. Values outside 1..ceiling yield def.
func Limit(r *http.Request, def, ceiling int) int {
	limit := IntQuery(r, "limit", def)
	if limit < 1 || limit > ceiling {
		return def
	}
	return limit
}

// IntQuery parses a single integer query parameter with a fallback default.
func IntQuery(r *http.Request, key string, defaultVal int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}

	return n
}
