// Package server implements the Causeway HTTP API server.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dwsmith1983/causeway/internal/finalize"
	"github.com/dwsmith1983/causeway/internal/store"
)

// Server is the Causeway HTTP API server.
type Server struct {
	store     store.Store
	finalizer *finalize.Finalizer
	router    chi.Router
	addr      string
	srv       *http.Server
}

// New creates a new HTTP server.
func New(addr, apiKey string, st store.Store, fin *finalize.Finalizer) *Server {
	s := &Server{
		store:     st,
		finalizer: fin,
		addr:      addr,
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Content-Type", "application/json"))
	r.Use(apiKeyAuth(apiKey))

	s.router = r
	s.registerRoutes(r)
	return s
}

// Handler exposes the router (useful for testing).
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	fmt.Printf("Causeway server listening on %s\n", s.addr)
	return s.srv.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}

func (s *Server) registerRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.health)
		r.Get("/runs/{runID}/status", s.getRunStatus)
		r.Get("/runs/{runID}/records", s.listCauseRecords)
		r.Post("/runs/{runID}/interrupt", s.interruptRun)
	})
}
