// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/taibuivan/truyennet/internal/otruyen"
	"github.com/taibuivan/truyennet/internal/platform/apperr"
	"github.com/taibuivan/truyennet/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/truyennet/internal/platform/request"
	"github.com/taibuivan/truyennet/internal/platform/respond"
	"github.com/taibuivan/truyennet/internal/platform/validate"
	"github.com/taibuivan/truyennet/pkg/pagination"
)

const (
	eventsBuffer     = 32
	eventsPingPeriod = 30 * time.Second
	eventsWriteWait  = 5 * time.Second
)

var (
	errHistoryNotFound  = apperr.NotFound("Reading history")
	errBookmarkNotFound = apperr.NotFound("Bookmark")
)

// ComicResolver looks up a comic so a favorite can be built from its slug alone.
type ComicResolver interface {
	ComicDetail(ctx context.Context, comicSlug string) (otruyen.ComicData, error)
}

// Handler implements the HTTP layer for the reader's local library.
type Handler struct {
	library  *Library
	comics   ComicResolver
	upgrader websocket.Upgrader
}

// NewHandler constructs a library [Handler]. checkOrigin gates the events
// websocket; nil accepts same-origin requests only.
func NewHandler(library *Library, comics ComicResolver, checkOrigin func(*http.Request) bool) *Handler {
	return &Handler{
		library: library,
		comics:  comics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

// Routes returns a [chi.Router] configured with the library endpoints.
// The long-lived [Handler.Events] stream is mounted separately.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Preferences
	router.Get("/preferences", handler.getPreferences)
	router.Put("/preferences", handler.putPreferences)
	router.Patch("/preferences", handler.patchPreferences)
	router.Delete("/preferences", handler.resetPreferences)

	// Reading History
	router.Get("/history", handler.listHistory)
	router.Post("/history", handler.addHistory)
	router.Delete("/history", handler.clearHistory)
	router.Get("/history/{slug}/last", handler.lastRead)
	router.Delete("/history/{slug}", handler.removeHistory)

	// Favorites
	router.Get("/favorites", handler.listFavorites)
	router.Post("/favorites", handler.addFavorite)
	router.Delete("/favorites", handler.clearFavorites)
	router.Get("/favorites/{slug}", handler.isFavorite)
	router.Post("/favorites/{slug}/toggle", handler.toggleFavorite)
	router.Delete("/favorites/{slug}", handler.removeFavorite)

	// Bookmarks
	router.Get("/bookmarks", handler.listBookmarks)
	router.Post("/bookmarks", handler.addBookmark)
	router.Delete("/bookmarks", handler.clearBookmarks)
	router.Delete("/bookmarks/{id}", handler.removeBookmark)

	// Backup
	router.Get("/export", handler.export)
	router.Post("/import", handler.importBackup)
	router.Delete("/", handler.clearAll)

	return router
}

// # Preferences Endpoints

/*
GET /api/v1/me/preferences.

Response:
  - 200: Preferences: stored values, or defaults
*/
func (handler *Handler) getPreferences(writer http.ResponseWriter, request *http.Request) {
	prefs, err := handler.library.Preferences.Get(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, prefs)
}

/*
PUT /api/v1/me/preferences.

Request: Preferences (every field)

Response:
  - 200: Preferences
  - 400: ValidationError: unknown value
*/
func (handler *Handler) putPreferences(writer http.ResponseWriter, request *http.Request) {
	var input Preferences
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.library.Preferences.Set(request.Context(), input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, input)
}

/*
PATCH /api/v1/me/preferences.

Request: PreferencesPatch (only the fields to change)

Response:
  - 200: Preferences: the merged result
  - 400: ValidationError: unknown value
*/
func (handler *Handler) patchPreferences(writer http.ResponseWriter, request *http.Request) {
	var input PreferencesPatch
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	prefs, err := handler.library.Preferences.Patch(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, prefs)
}

// resetPreferences handles DELETE /api/v1/me/preferences.
func (handler *Handler) resetPreferences(writer http.ResponseWriter, request *http.Request) {
	if err := handler.library.Preferences.Reset(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Reading History Endpoints

/*
GET /api/v1/me/history?page=N&limit=M.

Response:
  - 200: []HistoryItem, most recent first, with pagination meta
*/
func (handler *Handler) listHistory(writer http.ResponseWriter, request *http.Request) {
	items, err := handler.library.History.All(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	paginated(writer, request, items)
}

/*
POST /api/v1/me/history.

Description: Records a chapter as read. Re-reading a chapter moves it to the top.

Request: HistoryItem (readAt optional)

Response:
  - 204: recorded
  - 400: ValidationError
*/
func (handler *Handler) addHistory(writer http.ResponseWriter, request *http.Request) {
	var input HistoryItem
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.library.History.Add(request.Context(), input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
GET /api/v1/me/history/{slug}/last.

Response:
  - 200: HistoryItem: the most recent read of the comic
  - 404: NotFound: the comic was never read
*/
func (handler *Handler) lastRead(writer http.ResponseWriter, request *http.Request) {
	item, found, err := handler.library.History.LastRead(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if !found {
		respond.Error(writer, request, errHistoryNotFound)
		return
	}
	respond.OK(writer, item)
}

/*
DELETE /api/v1/me/history/{slug}?chapter=12.5.

Description: Removes one chapter of a comic, or every entry of it when chapter is omitted.

Response:
  - 200: {"removed": n}
  - 400: ValidationError: chapter is not a number
*/
func (handler *Handler) removeHistory(writer http.ResponseWriter, request *http.Request) {
	var chapter *float64
	if raw := requestutil.Query(request, "chapter"); raw != "" {
		number, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respond.Error(writer, request, validate.RequiredError("chapter", "Must be a number"))
			return
		}
		chapter = &number
	}

	removed, err := handler.library.History.Remove(request.Context(), requestutil.Param(request, "slug"), chapter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]int{"removed": removed})
}

func (handler *Handler) clearHistory(writer http.ResponseWriter, request *http.Request) {
	if err := handler.library.History.Clear(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Favorites Endpoints

/*
GET /api/v1/me/favorites?sort=updated&page=N&limit=M.

Description: Lists favorites newest-added first, or by latest update with sort=updated.

Response:
  - 200: []Favorite with pagination meta
*/
func (handler *Handler) listFavorites(writer http.ResponseWriter, request *http.Request) {
	items, err := handler.library.Favorites.All(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if requestutil.Query(request, "sort") == "updated" {
		items = SortByLatestUpdate(items)
	}
	paginated(writer, request, items)
}

/*
POST /api/v1/me/favorites.

Request: Favorite

Response:
  - 204: stored
  - 400: ValidationError
*/
func (handler *Handler) addFavorite(writer http.ResponseWriter, request *http.Request) {
	var input Favorite
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.library.Favorites.Add(request.Context(), input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// isFavorite handles GET /api/v1/me/favorites/{slug}.
func (handler *Handler) isFavorite(writer http.ResponseWriter, request *http.Request) {
	following, err := handler.library.Favorites.IsFavorite(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]bool{"favorite": following})
}

/*
POST /api/v1/me/favorites/{slug}/toggle.

Description: Follows or unfollows a comic. Following fetches the comic
detail so the stored favorite carries its name, cover and latest chapter.

Response:
  - 200: {"favorite": bool}: state after the toggle
  - 404/502/504: the comic could not be resolved
*/
func (handler *Handler) toggleFavorite(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	comicSlug := requestutil.Param(request, "slug")

	following, err := handler.library.Favorites.IsFavorite(ctx, comicSlug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if following {
		if _, err := handler.library.Favorites.Remove(ctx, comicSlug); err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, map[string]bool{"favorite": false})
		return
	}

	detail, err := handler.comics.ComicDetail(ctx, comicSlug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	favorite := NewFavorite(detail.Item, handler.library.now())
	if favorite.ComicSlug == "" {
		favorite.ComicSlug = comicSlug
	}
	if err := handler.library.Favorites.Add(ctx, favorite); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]bool{"favorite": true})
}

// removeFavorite handles DELETE /api/v1/me/favorites/{slug}.
func (handler *Handler) removeFavorite(writer http.ResponseWriter, request *http.Request) {
	if _, err := handler.library.Favorites.Remove(request.Context(), requestutil.Param(request, "slug")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) clearFavorites(writer http.ResponseWriter, request *http.Request) {
	if err := handler.library.Favorites.Clear(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Bookmarks Endpoints

// listBookmarks handles GET /api/v1/me/bookmarks, optionally filtered by ?comic=slug.
func (handler *Handler) listBookmarks(writer http.ResponseWriter, request *http.Request) {
	var (
		items []Bookmark
		err   error
	)
	if comicSlug := requestutil.Query(request, "comic"); comicSlug != "" {
		items, err = handler.library.Bookmarks.ForComic(request.Context(), comicSlug)
	} else {
		items, err = handler.library.Bookmarks.All(request.Context())
	}
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, items)
}

/*
POST /api/v1/me/bookmarks.

Request: Bookmark (id and createdAt optional)

Response:
  - 201: Bookmark: the stored bookmark with its id
  - 400: ValidationError
*/
func (handler *Handler) addBookmark(writer http.ResponseWriter, request *http.Request) {
	var input Bookmark
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookmark, err := handler.library.Bookmarks.Add(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, bookmark)
}

func (handler *Handler) removeBookmark(writer http.ResponseWriter, request *http.Request) {
	removed, err := handler.library.Bookmarks.Remove(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if !removed {
		respond.Error(writer, request, errBookmarkNotFound)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) clearBookmarks(writer http.ResponseWriter, request *http.Request) {
	if err := handler.library.Bookmarks.Clear(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Backup Endpoints

/*
GET /api/v1/me/export.

Description: Downloads every family as one indented JSON document.
*/
func (handler *Handler) export(writer http.ResponseWriter, request *http.Request) {
	data, err := handler.library.Export(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.Header().Set("Content-Disposition", `attachment; filename="truyennet-backup.json"`)
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write(data)
}

/*
POST /api/v1/me/import.

Request: a document produced by GET /export

Response:
  - 204: every family replaced
  - 400: ValidationError: "Invalid data format"
*/
func (handler *Handler) importBackup(writer http.ResponseWriter, request *http.Request) {
	body, err := requestutil.ReadBody(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.library.Import(request.Context(), body); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// clearAll handles DELETE /api/v1/me.
func (handler *Handler) clearAll(writer http.ResponseWriter, request *http.Request) {
	if err := handler.library.ClearAll(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// paginated writes the page of items selected by the page and limit query parameters.
func paginated[T any](writer http.ResponseWriter, request *http.Request, items []T) {
	params := pagination.FromRequest(request)
	respond.Paginated(writer, pagination.Window(items, params), pagination.NewMeta(params.Page, params.Limit, len(items)))
}

// # Change Events

/*
Events handles GET /api/v1/me/events (websocket).

Description: Streams an [Event] as JSON after every write, so other open
tabs can re-read the family that changed. Incoming messages are ignored.
*/
func (handler *Handler) Events(writer http.ResponseWriter, request *http.Request) {
	logger := ctxutil.GetLogger(request.Context())

	conn, err := handler.upgrader.Upgrade(writer, request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		logger.WarnContext(request.Context(), "events_upgrade_failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	events, unsubscribe := handler.library.Events().Subscribe(eventsBuffer)
	defer unsubscribe()

	logger.InfoContext(request.Context(), "events_client_connected",
		slog.Int("subscribers", handler.library.Events().Subscribers()),
	)

	// The read loop only exists to notice the client going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(eventsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, open := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
			if !open {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				logger.DebugContext(request.Context(), "events_write_failed", slog.Any("error", err))
				return
			}

		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(eventsWriteWait)); err != nil {
				return
			}

		case <-gone:
			logger.InfoContext(request.Context(), "events_client_disconnected")
			return
		}
	}
}
