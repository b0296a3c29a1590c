// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package otruyen is the typed contract of the public comic API (otruyenapi.com).

Every call goes through the cached [httpclient.Client], so repeated page views
inside the cache TTL cost no upstream traffic. Responses share the
{status, message, data} envelope; an envelope with status "error" is reported
as an [apperr.AppError] carrying the upstream message.

Derived operations (suggestions, trending, search suggestions) degrade to an
empty list on failure, since they only decorate a page.
*/
package otruyen

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/truyennet/internal/platform/apperr"
	"github.com/taibuivan/truyennet/internal/platform/httpclient"
	"github.com/taibuivan/truyennet/pkg/slice"
	"github.com/taibuivan/truyennet/pkg/slug"
)

// # Endpoints

const (
	endpointHome       = "/home"
	endpointList       = "/danh-sach"
	endpointComic      = "/truyen-tranh"
	endpointCategories = "/the-loai"
	endpointSearch     = "/tim-kiem"
)

// List types accepted by [Service.ListByType].
const (
	ListNew       = "truyen-moi"
	ListHot       = "truyen-hot"
	ListCompleted = "hoan-thanh"
	ListUpcoming  = "sap-ra-mat"
	ListOngoing   = "dang-phat-hanh"
)

// ListTypes enumerates the known list slugs.
var ListTypes = []string{ListNew, ListHot, ListCompleted, ListUpcoming, ListOngoing}

const (
	maxSuggestions       = 6
	defaultTrendingLimit = 10
	maxSearchSuggestions = 5
	minSuggestionRunes   = 2
)

// # Service

// Service exposes the comic API operations.
type Service struct {
	client  httpclient.Getter
	cdnBase string
	logger  *slog.Logger
}

// NewService builds a [Service]. cdnBase prefixes relative thumbnail paths.
func NewService(client httpclient.Getter, cdnBase string, logger *slog.Logger) *Service {
	return &Service{
		client:  client,
		cdnBase: cdnBase,
		logger:  logger,
	}
}

// fetch performs a GET, unwraps the envelope and rejects "error" envelopes.
func fetch[T any](ctx context.Context, service *Service, endpoint string, params map[string]string) (T, error) {
	var zero T

	envelope, err := httpclient.GetJSON[Envelope[T]](ctx, service.client, endpoint, httpclient.RequestOptions{Params: params})
	if err != nil {
		return zero, err
	}

	if envelope.Status == StatusError {
		return zero, apperr.UpstreamMessage(envelope.Message)
	}

	return envelope.Data, nil
}

func pageParams(page int) map[string]string {
	if page < 1 {
		page = 1
	}
	return map[string]string{"page": strconv.Itoa(page)}
}

// # Listings

// Home returns the home feed (latest updates).
func (service *Service) Home(ctx context.Context) (HomeData, error) {
	data, err := fetch[HomeData](ctx, service, endpointHome, nil)
	if err != nil {
		return HomeData{}, err
	}
	service.resolveCovers(data.Items)
	return data, nil
}

// ListByType returns one page of a named list such as "truyen-hot".
func (service *Service) ListByType(ctx context.Context, listType string, page int) (ListData, error) {
	listType = slug.From(listType)
	if listType == "" {
		return ListData{}, apperr.ValidationError("List type is required")
	}

	data, err := fetch[ListData](ctx, service, endpointList+"/"+url.PathEscape(listType), pageParams(page))
	if err != nil {
		return ListData{}, err
	}
	service.resolveCovers(data.Items)
	return data, nil
}

// Popular returns the "truyen-hot" list.
func (service *Service) Popular(ctx context.Context, page int) (ListData, error) {
	return service.ListByType(ctx, ListHot, page)
}

// Newest returns the "truyen-moi" list.
func (service *Service) Newest(ctx context.Context, page int) (ListData, error) {
	return service.ListByType(ctx, ListNew, page)
}

// Completed returns the "hoan-thanh" list.
func (service *Service) Completed(ctx context.Context, page int) (ListData, error) {
	return service.ListByType(ctx, ListCompleted, page)
}

// HomeSections fetches the popular, newest and completed first pages in parallel.
// Any failure fails the whole call.
func (service *Service) HomeSections(ctx context.Context) (HomeSections, error) {
	var sections HomeSections

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() (err error) {
		sections.Popular, err = service.Popular(groupCtx, 1)
		return err
	})
	group.Go(func() (err error) {
		sections.Newest, err = service.Newest(groupCtx, 1)
		return err
	})
	group.Go(func() (err error) {
		sections.Completed, err = service.Completed(groupCtx, 1)
		return err
	})

	if err := group.Wait(); err != nil {
		return HomeSections{}, err
	}

	return sections, nil
}

// # Comics & Chapters

// ComicDetail returns one comic with its chapter servers.
func (service *Service) ComicDetail(ctx context.Context, comicSlug string) (ComicData, error) {
	if comicSlug == "" {
		return ComicData{}, apperr.ValidationError("Comic slug is required")
	}

	data, err := fetch[ComicData](ctx, service, endpointComic+"/"+url.PathEscape(comicSlug), nil)
	if err != nil {
		return ComicData{}, err
	}
	data.Item.CoverURL = ResolveImageURL(service.cdnBase, data.Item.ThumbURL)
	return data, nil
}

// Chapter returns the pages of chapter number of a comic.
func (service *Service) Chapter(ctx context.Context, comicSlug string, number float64) (ChapterData, error) {
	if comicSlug == "" {
		return ChapterData{}, apperr.ValidationError("Comic slug is required")
	}

	endpoint := fmt.Sprintf("%s/%s/chuong-%s", endpointComic, url.PathEscape(comicSlug), FormatChapterNumber(number))
	return fetch[ChapterData](ctx, service, endpoint, nil)
}

// FormatChapterNumber renders 12 as "12" and 12.5 as "12.5".
func FormatChapterNumber(number float64) string {
	return strconv.FormatFloat(number, 'f', -1, 64)
}

// # Categories & Search

// Categories returns every genre.
func (service *Service) Categories(ctx context.Context) ([]Category, error) {
	data, err := fetch[CategoriesData](ctx, service, endpointCategories, nil)
	if err != nil {
		return nil, err
	}
	return data.Items, nil
}

// ComicsByCategory returns one page of comics tagged with categorySlug.
func (service *Service) ComicsByCategory(ctx context.Context, categorySlug string, page int) (ListData, error) {
	categorySlug = slug.From(categorySlug)
	if categorySlug == "" {
		return ListData{}, apperr.ValidationError("Category slug is required")
	}

	data, err := fetch[ListData](ctx, service, endpointCategories+"/"+url.PathEscape(categorySlug), pageParams(page))
	if err != nil {
		return ListData{}, err
	}
	service.resolveCovers(data.Items)
	return data, nil
}

// Search runs a keyword search. Empty filters are left out of the query.
func (service *Service) Search(ctx context.Context, params SearchParams) (ListData, error) {
	query := map[string]string{
		"q":        slug.Keyword(params.Query),
		"category": params.Category,
		"status":   params.Status,
	}
	if params.Page > 0 {
		query["page"] = strconv.Itoa(params.Page)
	}

	data, err := fetch[ListData](ctx, service, endpointSearch, query)
	if err != nil {
		return ListData{}, err
	}
	service.resolveCovers(data.Items)
	return data, nil
}

// # Derived Feeds

// Suggestions returns up to six comics sharing the first category of comicSlug,
// excluding the comic itself. Failures yield an empty list.
func (service *Service) Suggestions(ctx context.Context, comicSlug string) []Comic {
	detail, err := service.ComicDetail(ctx, comicSlug)
	if err != nil {
		service.logger.WarnContext(ctx, "suggestions_unavailable", slog.String("slug", comicSlug), slog.Any("error", err))
		return []Comic{}
	}

	if len(detail.Item.Category) == 0 {
		return []Comic{}
	}

	related, err := service.ComicsByCategory(ctx, detail.Item.Category[0].Slug, 1)
	if err != nil {
		service.logger.WarnContext(ctx, "suggestions_unavailable", slog.String("slug", comicSlug), slog.Any("error", err))
		return []Comic{}
	}

	others := slice.Filter(related.Items, func(comic Comic) bool { return comic.Slug != comicSlug })
	return slice.Take(others, maxSuggestions)
}

// Trending returns the first limit popular comics (10 when limit is not positive).
// Failures yield an empty list.
func (service *Service) Trending(ctx context.Context, limit int) []Comic {
	if limit <= 0 {
		limit = defaultTrendingLimit
	}

	popular, err := service.Popular(ctx, 1)
	if err != nil {
		service.logger.WarnContext(ctx, "trending_unavailable", slog.Any("error", err))
		return []Comic{}
	}

	return slice.Take(popular.Items, limit)
}

// SearchSuggestions returns the top five matches for an autocomplete box.
// Queries shorter than two characters and failures yield an empty list.
func (service *Service) SearchSuggestions(ctx context.Context, query string) []Comic {
	query = slug.Keyword(query)
	if utf8.RuneCountInString(query) < minSuggestionRunes {
		return []Comic{}
	}

	result, err := service.Search(ctx, SearchParams{Query: query, Page: 1})
	if err != nil {
		service.logger.WarnContext(ctx, "search_suggestions_unavailable", slog.String("query", query), slog.Any("error", err))
		return []Comic{}
	}

	return slice.Take(result.Items, maxSearchSuggestions)
}

// # Helpers

func (service *Service) resolveCovers(comics []Comic) {
	for i := range comics {
		comics[i].CoverURL = ResolveImageURL(service.cdnBase, comics[i].ThumbURL)
	}
}
