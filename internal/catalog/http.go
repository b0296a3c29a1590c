// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog provides the HTTP delivery layer for browsing the comic API.

Every route is a read-through to [otruyen.Service]; responses come from the
shared response cache whenever a fresh copy exists.
*/
package catalog

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/truyennet/internal/otruyen"
	"github.com/taibuivan/truyennet/internal/platform/constants"
	"github.com/taibuivan/truyennet/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/truyennet/internal/platform/request"
	"github.com/taibuivan/truyennet/internal/platform/respond"
	"github.com/taibuivan/truyennet/internal/platform/validate"
	"github.com/taibuivan/truyennet/pkg/pagination"
)

const (
	defaultTrending = 10
	maxTrending     = constants.ItemsPerPage
)

// CacheClearer drops every cached upstream response.
type CacheClearer interface {
	ClearCache()
}

// Handler implements the HTTP layer for the comic catalogue.
type Handler struct {
	comics *otruyen.Service
	cache  CacheClearer
}

// NewHandler constructs a catalogue [Handler].
func NewHandler(comics *otruyen.Service, cache CacheClearer) *Handler {
	return &Handler{comics: comics, cache: cache}
}

// Routes returns a [chi.Router] configured with the catalogue endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Feeds
	router.Get("/home", handler.home)
	router.Get("/home/sections", handler.homeSections)
	router.Get("/lists/{type}", handler.list)
	router.Get("/trending", handler.trending)

	// Comics
	router.Get("/comics/{slug}", handler.comic)
	router.Get("/comics/{slug}/suggestions", handler.suggestions)
	router.Get("/comics/{slug}/chapters/{number}", handler.chapter)

	// Categories
	router.Get("/categories", handler.categories)
	router.Get("/categories/{slug}", handler.category)

	// Search
	router.Get("/search", handler.search)
	router.Get("/search/suggestions", handler.searchSuggestions)

	// Cache
	router.Delete("/cache", handler.clearCache)

	return router
}

// # Feed Endpoints

// home handles GET /api/v1/home.
func (handler *Handler) home(writer http.ResponseWriter, request *http.Request) {
	data, err := handler.comics.Home(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, data)
}

/*
GET /api/v1/home/sections.

Description: Returns the popular, newest and completed carousels in one call.

Response:
  - 200: HomeSections
  - 502/504: any of the three lists failed
*/
func (handler *Handler) homeSections(writer http.ResponseWriter, request *http.Request) {
	sections, err := handler.comics.HomeSections(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, sections)
}

/*
GET /api/v1/lists/{type}?page=N.

Description: One page of a named list (truyen-moi, truyen-hot, hoan-thanh,
sap-ra-mat, dang-phat-hanh).

Response:
  - 200: []Comic with pagination meta
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	data, err := handler.comics.ListByType(request.Context(), requestutil.Param(request, "type"), pageParam(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	paginated(writer, data)
}

/*
GET /api/v1/trending?limit=N.

Description: The head of the popular list. Upstream failures yield an empty list.
*/
func (handler *Handler) trending(writer http.ResponseWriter, request *http.Request) {
	limit := pagination.Limit(request, defaultTrending, maxTrending)
	respond.OK(writer, handler.comics.Trending(request.Context(), limit))
}

// # Comic Endpoints

/*
GET /api/v1/comics/{slug}.

Response:
  - 200: ComicData: the comic with its chapter servers
  - 404: unknown comic
*/
func (handler *Handler) comic(writer http.ResponseWriter, request *http.Request) {
	data, err := handler.comics.ComicDetail(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, data)
}

// suggestions handles GET /api/v1/comics/{slug}/suggestions.
func (handler *Handler) suggestions(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.comics.Suggestions(request.Context(), requestutil.Param(request, "slug")))
}

/*
GET /api/v1/comics/{slug}/chapters/{number}.

Description: Chapter pages. Fractional numbers such as 12.5 are supported.

Response:
  - 200: ChapterData
  - 400: ValidationError: number is not numeric
*/
func (handler *Handler) chapter(writer http.ResponseWriter, request *http.Request) {
	number, err := strconv.ParseFloat(requestutil.Param(request, "number"), 64)
	if err != nil || number < 0 {
		respond.Error(writer, request, validate.RequiredError("number", "Must be a non-negative number"))
		return
	}

	data, err := handler.comics.Chapter(request.Context(), requestutil.Param(request, "slug"), number)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, data)
}

// # Category Endpoints

// categories handles GET /api/v1/categories.
func (handler *Handler) categories(writer http.ResponseWriter, request *http.Request) {
	items, err := handler.comics.Categories(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, items)
}

// category handles GET /api/v1/categories/{slug}?page=N.
func (handler *Handler) category(writer http.ResponseWriter, request *http.Request) {
	data, err := handler.comics.ComicsByCategory(request.Context(), requestutil.Param(request, "slug"), pageParam(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	paginated(writer, data)
}

// # Search Endpoints

/*
GET /api/v1/search?q=...&category=...&status=...&page=N.

Response:
  - 200: []Comic with pagination meta
  - 400: ValidationError: q is empty
*/
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	params := otruyen.SearchParams{
		Query:    requestutil.Query(request, "q"),
		Category: requestutil.Query(request, "category"),
		Status:   requestutil.Query(request, "status"),
		Page:     pageParam(request),
	}

	v := &validate.Validator{}
	v.Required("q", params.Query).MaxLen("q", params.Query, 200)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	data, err := handler.comics.Search(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	paginated(writer, data)
}

// searchSuggestions handles GET /api/v1/search/suggestions?q=...
func (handler *Handler) searchSuggestions(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.comics.SearchSuggestions(request.Context(), requestutil.Query(request, "q")))
}

// # Cache Endpoints

// clearCache handles DELETE /api/v1/cache.
func (handler *Handler) clearCache(writer http.ResponseWriter, request *http.Request) {
	handler.cache.ClearCache()
	ctxutil.GetLogger(request.Context()).InfoContext(request.Context(), "response_cache_cleared_by_request",
		slog.String("request_id", ctxutil.GetRequestID(request.Context())),
	)
	respond.NoContent(writer)
}

// # Helpers

func pageParam(request *http.Request) int {
	return pagination.Page(request)
}

// paginated writes a listing with meta computed from the upstream block.
func paginated(writer http.ResponseWriter, data otruyen.ListData) {
	block := data.Params.Pagination
	items := data.Items
	if items == nil {
		items = []otruyen.Comic{}
	}
	respond.Paginated(writer, items, pagination.NewMeta(max(block.CurrentPage, 1), block.TotalItemsPerPage, block.TotalItems))
}
