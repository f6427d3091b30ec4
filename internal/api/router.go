// Package api wires the HTTP analysis service.
package api

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ccollicutt/logtally/internal/api/handlers"
	"github.com/ccollicutt/logtally/internal/api/middleware"
	"github.com/ccollicutt/logtally/pkg/config"
)

// NewRouter creates the service router.
func NewRouter(cfg config.ServerConfig) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	// mux skips middleware when no route matches
	r.MethodNotAllowedHandler = middleware.Logging(middleware.Metrics(http.HandlerFunc(handlers.MethodNotAllowed)))
	r.NotFoundHandler = middleware.Logging(middleware.Metrics(http.HandlerFunc(handlers.NotFound)))

	pageHandler := handlers.NewPageHandler(cfg.MaxUploadBytes)
	r.HandleFunc("/", pageHandler.Index).Methods(http.MethodGet, http.MethodHead)

	analyzeHandler := handlers.NewAnalyzeHandler(cfg.MaxUploadBytes, cfg.AnalysisTimeout)
	r.HandleFunc("/api/analyze", analyzeHandler.Analyze).Methods(http.MethodPost)

	r.HandleFunc("/healthz", handlers.Health).Methods(http.MethodGet, http.MethodHead)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}

// Server represents the API server.
type Server struct {
	cfg    config.ServerConfig
	server *http.Server
}

// NewServer creates a new API server.
func NewServer(cfg config.ServerConfig) *Server {
	return &Server{
		cfg: cfg,
		server: &http.Server{
			Addr:              cfg.Listen,
			Handler:           NewRouter(cfg),
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
		},
	}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Serve accepts connections on ln until Shutdown is called. A clean
// shutdown returns nil.
func (s *Server) Serve(ln net.Listener) error {
	log.Printf("logtally listening on http://%s", ln.Addr())
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe binds the configured address and serves.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down API server...")

	shutdownCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		timeout := s.cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = config.DefaultShutdownTimeout
		}
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	return s.server.Shutdown(shutdownCtx)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if err := s.Shutdown(context.Background()); err != nil {
		return err
	}
	return <-errCh
}

