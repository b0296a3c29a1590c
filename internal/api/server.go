// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api is the composition root of the TruyenNet HTTP server.

Route layout:

	/health, /ready        probes
	/api/v1/me/events      websocket stream of library changes (no deadline)
	/api/v1/me/...         reader library (preferences, history, favorites, bookmarks)
	/api/v1/...            comic catalogue served through the response cache
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/truyennet/internal/catalog"
	"github.com/taibuivan/truyennet/internal/library"
	"github.com/taibuivan/truyennet/internal/platform/config"
	"github.com/taibuivan/truyennet/internal/platform/constants"
	"github.com/taibuivan/truyennet/internal/platform/middleware"
)

// # Server Definitions

// Server owns the router and the listening [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler; always 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler; 200 when the storage backend answers.
	Readiness http.HandlerFunc

	// Catalog serves the comic API through the response cache.
	Catalog *catalog.Handler

	// Library serves the reader's preferences, history, favorites and bookmarks.
	Library *library.Handler
}

// # Server Initialization

// NewServer builds the router. context bounds background work started by the
// middleware, such as the rate limiter sweep.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, h Handlers) *Server {
	r := chi.NewRouter()

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.RateLimit(context, cfg.RateLimitRPS, cfg.RateLimitBurst))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	r.Route("/api/v1", func(api chi.Router) {
		// The event stream outlives any request deadline.
		api.Get("/me/events", h.Library.Events)

		api.Group(func(timed chi.Router) {
			timed.Use(chimw.Timeout(constants.GlobalRequestTimeout))
			timed.Mount("/me", h.Library.Routes())
			timed.Mount("/", h.Catalog.Routes())
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	s.log.Info("http_server_listening", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections and waits up to timeout for
// in-flight requests. Hijacked websocket connections are not tracked, so
// the library broker must be closed first.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
