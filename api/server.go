// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/poiesic/cinevec"
	"github.com/poiesic/cinevec/config"
	"github.com/poiesic/cinevec/importer"
	"github.com/poiesic/cinevec/metrics"
	"github.com/poiesic/cinevec/search"
)

// shutdownTimeout bounds graceful shutdown in ListenAndServe.
const shutdownTimeout = 10 * time.Second

// Server serves the action endpoint for one Database.
type Server struct {
	db          *cinevec.Database
	importer    *importer.Importer
	recommender *search.Recommender
	metrics     *metrics.Metrics
	server      config.ServerConfig
	recommend   config.RecommendConfig
	logger      *slog.Logger

	// train runs are serialized; a second request fails fast
	trainMu sync.Mutex

	handler http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records import and recommendation metrics and serves them
// on /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer builds the router for db. Only the server and recommend
// sections of cfg are used; a nil cfg uses config.Default().
func NewServer(db *cinevec.Database, cfg *config.Config, opts ...Option) (*Server, error) {
	if db == nil {
		return nil, ErrDatabaseRequired
	}
	if cfg == nil {
		cfg = config.Default()
	}

	s := &Server{
		db:        db,
		server:    cfg.Server,
		recommend: cfg.Recommend,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	var importOpts []importer.Option
	var searchOpts []search.Option
	if s.metrics != nil {
		importOpts = append(importOpts, importer.WithRecorder(s.metrics))
		searchOpts = append(searchOpts, search.WithObserver(s.metrics))
	}
	s.importer = db.NewImporter(importOpts...)

	recommender, err := db.NewRecommender(searchOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create recommender: %w", err)
	}
	s.recommender = recommender

	s.handler = s.routes()
	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(requestID)
	r.Use(accessLog(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(corsHandler(s.server.CORSOrigin))

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(rateLimit(s.server.RateLimit))
		if s.server.RequestTimeout > 0 {
			r.Use(requestTimeout(s.server.RequestTimeout))
		}

		r.Options("/api", s.handlePreflight)
		r.Get("/api", s.handleAction)
		r.Post("/api", s.handleAction)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on the configured address until ctx is done, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.server.Addr,
		Handler:      s.handler,
		ReadTimeout:  s.server.ReadTimeout,
		WriteTimeout: s.server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:      "ok",
		Fingerprint: s.db.Embedder().Fingerprint(),
	})
}

func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	if h.Get("Access-Control-Allow-Origin") == "" {
		origin := s.server.CORSOrigin
		if origin == "" {
			origin = "*"
		}
		h.Set("Access-Control-Allow-Origin", origin)
	}
	if h.Get("Access-Control-Allow-Headers") == "" {
		h.Set("Access-Control-Allow-Headers", strings.Join(allowedHeaders, ", "))
	}
	w.WriteHeader(http.StatusNoContent)
}

// limit applies the default to an unset limit and caps it at the maximum.
func (s *Server) limit(requested int) int {
	if requested <= 0 {
		return s.recommend.DefaultLimit
	}
	if requested > s.recommend.MaxLimit {
		return s.recommend.MaxLimit
	}
	return requested
}
