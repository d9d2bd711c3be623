// Package server exposes the ingestion and profile-generation pipeline over
// HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/fusionlabs/profilegen/internal/config"
	"github.com/fusionlabs/profilegen/internal/ingest"
	"github.com/fusionlabs/profilegen/internal/pipeline"
	"github.com/fusionlabs/profilegen/internal/store"
)

// Server wires the HTTP API to the pipeline, ingestion service and store.
type Server struct {
	pipe   *pipeline.Pipeline
	ingest *ingest.Service
	store  store.Store
	cfg    config.ServerConfig
}

// New creates a Server.
func New(pipe *pipeline.Pipeline, ing *ingest.Service, st store.Store, cfg config.ServerConfig) *Server {
	return &Server{pipe: pipe, ingest: ing, store: st, cfg: cfg}
}

// Router builds the chi router with all API routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/ingest/{source}", s.handleIngest)
		r.Post("/profile/generate", s.handleGenerate)
		r.Get("/profile/{company}", s.handleGetProfile)
		r.Post("/industry/match", s.handleIndustryMatch)
		r.Get("/industry/{company}", s.handleGetIndustry)
	})
	return r
}

// ListenAndServe runs the HTTP server until ctx is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("server: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	zap.L().Info("server: listening", zap.Int("port", s.cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server: listen")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
