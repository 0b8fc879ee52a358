// Package server exposes the snapshot and the question-answering path
// over a small JSON API. It feeds the companion dashboard; rendering
// happens entirely on the client side.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/argolab/floatchat/internal/metrics"
	"github.com/argolab/floatchat/internal/service"
	"github.com/argolab/floatchat/internal/store"
)

// Server serves the read-only dashboard API.
type Server struct {
	snap      *store.Snapshot
	retriever *service.Retriever
	chat      *service.Chat
	collector *metrics.Collector
	logger    *slog.Logger
	http      *http.Server
}

// New creates a server over a loaded snapshot and query services.
func New(addr string, snap *store.Snapshot, retriever *service.Retriever, chat *service.Chat, logger *slog.Logger) *Server {
	s := &Server{
		snap:      snap,
		retriever: retriever,
		chat:      chat,
		collector: metrics.NewCollector(),
		logger:    logger,
	}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/manifest", s.handleManifest)
		r.Get("/metadata", s.handleMetadata)
		r.Get("/profiles/{id}", s.handleProfile)
		r.Get("/search", s.handleSearch)
		r.Post("/ask", s.handleAsk)
		r.Get("/stats", s.handleStats)
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
