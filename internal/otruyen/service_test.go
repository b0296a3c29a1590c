// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package otruyen_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/truyennet/internal/otruyen"
	"github.com/taibuivan/truyennet/internal/platform/apperr"
	"github.com/taibuivan/truyennet/internal/platform/httpclient"
)

const cdn = "https://img.example.com/uploads/comics"

// fakeAPI serves canned envelopes keyed by path and records every request URI.
type fakeAPI struct {
	routes map[string]any
	hits   atomic.Int32
	last   atomic.Value
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.hits.Add(1)
	f.last.Store(r.URL.RequestURI())

	data, ok := f.routes[r.URL.Path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"status":"error","message":"not found"}`)
		return
	}

	_ = json.NewEncoder(w).Encode(data)
}

func newService(t *testing.T, routes map[string]any) (*otruyen.Service, *fakeAPI) {
	t.Helper()

	api := &fakeAPI{routes: routes}
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := httpclient.New(server.URL, httpclient.WithLogger(logger))
	return otruyen.NewService(client, cdn, logger), api
}

func success(data any) map[string]any {
	return map[string]any{"status": "success", "data": data}
}

func listOf(slugs ...string) map[string]any {
	items := make([]map[string]any, 0, len(slugs))
	for _, s := range slugs {
		items = append(items, map[string]any{
			"slug":      s,
			"name":      s,
			"thumb_url": s + "-thumb.jpg",
			"category":  []map[string]any{{"name": "Action", "slug": "action"}},
		})
	}
	return success(map[string]any{
		"items": items,
		"params": map[string]any{
			"pagination": map[string]any{"currentPage": 1, "totalItems": 45, "totalItemsPerPage": 24},
		},
	})
}

/*
TestResolveImageURL covers the thumbnail boundary rule.
*/
func TestResolveImageURL(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"relative", "abc/cover.jpg", cdn + "/abc/cover.jpg"},
		{"absolute_https", "https://x.com/c.jpg", "https://x.com/c.jpg"},
		{"absolute_http", "http://x.com/c.jpg", "http://x.com/c.jpg"},
		{"empty", "", "/placeholder-comic.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, otruyen.ResolveImageURL(cdn, tt.path))
		})
	}
}

/*
TestPagination_TotalPages derives the page count by ceiling division.
*/
func TestPagination_TotalPages(t *testing.T) {
	assert.Equal(t, 2, otruyen.Pagination{TotalItems: 45, TotalItemsPerPage: 24}.TotalPages())
	assert.Equal(t, 0, otruyen.Pagination{TotalItems: 45}.TotalPages())
}

/*
TestListByType resolves covers and sends the page parameter.
*/
func TestListByType(t *testing.T) {
	service, api := newService(t, map[string]any{"/danh-sach/truyen-moi": listOf("a", "b")})

	data, err := service.Newest(context.Background(), 2)
	require.NoError(t, err)

	require.Len(t, data.Items, 2)
	assert.Equal(t, cdn+"/a-thumb.jpg", data.Items[0].CoverURL)
	assert.Equal(t, 2, data.Params.Pagination.TotalPages())
	assert.Equal(t, "/danh-sach/truyen-moi?page=2", api.last.Load())
}

/*
TestFetch_ErrorEnvelope surfaces the upstream message for "error" envelopes.
*/
func TestFetch_ErrorEnvelope(t *testing.T) {
	service, _ := newService(t, map[string]any{
		"/truyen-tranh/missing": map[string]any{"status": "error", "message": "Không tìm thấy truyện", "data": nil},
	})

	_, err := service.ComicDetail(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeUpstreamMessage))
	assert.Equal(t, "Không tìm thấy truyện", err.Error())
}

/*
TestChapter formats fractional chapter numbers in the path.
*/
func TestChapter(t *testing.T) {
	service, api := newService(t, map[string]any{
		"/truyen-tranh/tien-nghich/chuong-12.5": success(map[string]any{
			"item": map[string]any{"chapter_name": "12.5", "images": []map[string]any{{"page": 1, "src": "p1.jpg"}}},
		}),
	})

	data, err := service.Chapter(context.Background(), "tien-nghich", 12.5)
	require.NoError(t, err)
	assert.Equal(t, "12.5", data.Item.ChapterName)
	require.Len(t, data.Item.Images, 1)
	assert.Equal(t, "/truyen-tranh/tien-nghich/chuong-12.5", api.last.Load())
	assert.Equal(t, "7", otruyen.FormatChapterNumber(7))
}

/*
TestHomeSections fetches the three lists and fails as a whole on any error.
*/
func TestHomeSections(t *testing.T) {
	routes := map[string]any{
		"/danh-sach/truyen-hot": listOf("hot"),
		"/danh-sach/truyen-moi": listOf("new"),
		"/danh-sach/hoan-thanh": listOf("done"),
	}
	service, api := newService(t, routes)

	sections, err := service.HomeSections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hot", sections.Popular.Items[0].Slug)
	assert.Equal(t, "new", sections.Newest.Items[0].Slug)
	assert.Equal(t, "done", sections.Completed.Items[0].Slug)
	assert.Equal(t, int32(3), api.hits.Load())

	delete(routes, "/danh-sach/hoan-thanh")
	failing, _ := newService(t, routes)
	_, err = failing.HomeSections(context.Background())
	assert.True(t, apperr.HasCode(err, apperr.CodeUpstream))
}

/*
TestSuggestions excludes the comic itself and caps the list at six.
*/
func TestSuggestions(t *testing.T) {
	service, _ := newService(t, map[string]any{
		"/truyen-tranh/self": success(map[string]any{
			"item": map[string]any{"slug": "self", "category": []map[string]any{{"slug": "action"}, {"slug": "drama"}}},
		}),
		"/the-loai/action": listOf("c1", "self", "c2", "c3", "c4", "c5", "c6", "c7"),
	})

	got := service.Suggestions(context.Background(), "self")
	require.Len(t, got, 6)
	for _, comic := range got {
		assert.NotEqual(t, "self", comic.Slug)
	}
	assert.Equal(t, "c1", got[0].Slug)
}

/*
TestDerivedFeeds_DegradeToEmpty checks failure handling of decorative feeds.
*/
func TestDerivedFeeds_DegradeToEmpty(t *testing.T) {
	service, _ := newService(t, map[string]any{})

	assert.Empty(t, service.Suggestions(context.Background(), "ghost"))
	assert.NotNil(t, service.Suggestions(context.Background(), "ghost"))
	assert.Empty(t, service.Trending(context.Background(), 5))
	assert.Empty(t, service.SearchSuggestions(context.Background(), "one piece"))
}

/*
TestTrending limits the popular list.
*/
func TestTrending(t *testing.T) {
	slugs := make([]string, 0, 15)
	for i := range 15 {
		slugs = append(slugs, fmt.Sprintf("c%d", i))
	}
	service, _ := newService(t, map[string]any{"/danh-sach/truyen-hot": listOf(slugs...)})

	assert.Len(t, service.Trending(context.Background(), 0), 10)
	assert.Len(t, service.Trending(context.Background(), 3), 3)
}

/*
TestSearchSuggestions skips short queries without touching the network.
*/
func TestSearchSuggestions(t *testing.T) {
	service, api := newService(t, map[string]any{"/tim-kiem": listOf("a", "b", "c", "d", "e", "f", "g")})

	assert.Empty(t, service.SearchSuggestions(context.Background(), " a "))
	assert.Equal(t, int32(0), api.hits.Load())

	got := service.SearchSuggestions(context.Background(), "tiên")
	assert.Len(t, got, 5)
	assert.Equal(t, int32(1), api.hits.Load())
}

/*
TestSearch omits empty filters from the query string.
*/
func TestSearch(t *testing.T) {
	service, api := newService(t, map[string]any{"/tim-kiem": listOf("a")})

	_, err := service.Search(context.Background(), otruyen.SearchParams{Query: "  one   piece ", Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, "/tim-kiem?q=one+piece&status=completed", api.last.Load())
}
