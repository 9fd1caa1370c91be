// Package server provides the HTTP API for knowbot.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/knowbot/knowbot/internal/chat"
	"github.com/knowbot/knowbot/internal/config"
	"github.com/knowbot/knowbot/internal/ingest"
	"github.com/knowbot/knowbot/internal/vector"
)

// maxUploadBytes caps multipart document uploads.
const maxUploadBytes = 64 << 20

// Server is the HTTP server for the knowbot API.
type Server struct {
	engine   *chat.Engine
	ingestor *ingest.Ingestor
	index    vector.Index
	config   *config.ServerConfig
	logger   *zap.Logger
	server   *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	engine *chat.Engine,
	ingestor *ingest.Ingestor,
	index vector.Index,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		engine:   engine,
		ingestor: ingestor,
		index:    index,
		config:   cfg,
		logger:   logger,
	}
}

// router builds the chi router with all routes and middleware.
func (s *Server) router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsAllowAll)

	r.Post("/api/v1/documents", s.handleUpload)
	r.Post("/api/v1/ask", s.handleAsk)
	r.Post("/api/v1/reset", s.handleReset)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router(),
	}
	s.logger.Info("starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// corsAllowAll permits browser frontends from any origin; the API carries no
// credentials.
func corsAllowAll(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "*")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
