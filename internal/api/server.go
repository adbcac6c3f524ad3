// Package api exposes the mapping repository over HTTP: lookup and
// deletion of individual records, search, and the curation actions.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cthoyt/sssom-go/database"
	"github.com/cthoyt/sssom-go/internal/config"
	"github.com/cthoyt/sssom-go/internal/log"
)

// Server serves the curation API over a mapping repository.
type Server struct {
	repo database.Repository
	cfg  config.Server
	http *http.Server
}

// NewServer wires the repository behind the HTTP routes.
func NewServer(repo database.Repository, cfg config.Server) *Server {
	s := &Server{repo: repo, cfg: cfg}
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Router builds the chi handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(logging)
	if s.cfg.RateLimit > 0 {
		r.Use(httprate.LimitByIP(s.cfg.RateLimit, time.Minute))
	}

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/mapping", func(r chi.Router) {
		r.Post("/", s.handleAdd)
		r.Get("/{curie}", s.handleGet)
		r.Delete("/{curie}", s.handleDelete)
	})
	r.Get("/mappings", s.handleList)
	r.Get("/summary", s.handleSummary)

	r.Route("/action", func(r chi.Router) {
		r.Post("/curate/{curie}", s.handleCurate)
		r.Post("/publish/{curie}", s.handlePublish)
	})
	return r
}

// ListenAndServe runs the server until the context is cancelled, then
// shuts down gracefully within the configured timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	logger := log.WithComponent("api")

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", s.cfg.Addr).Msg("listening")
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	logger.Info().Msg("shutting down")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
