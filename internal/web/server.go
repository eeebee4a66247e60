// Package web serves the Valentine's week page and its card API.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"eternal-valentine/internal/config"
	"eternal-valentine/internal/metrics"
	"eternal-valentine/internal/session"
)

// SessionCookie names the cookie carrying the page session token.
const SessionCookie = "valentine_session"

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Server handles the page and the JSON card API.
type Server struct {
	cfg      config.ServerConfig
	sessions *session.Manager
	stats    *metrics.Store
	logger   *slog.Logger
	handler  http.Handler
}

// NewServer creates a Server. stats may be nil, in which case /api/stats
// reports an empty summary.
func NewServer(cfg config.ServerConfig, sessions *session.Manager, stats *metrics.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if stats == nil {
		stats = metrics.NewStore(0)
	}
	s := &Server{
		cfg:      cfg,
		sessions: sessions,
		stats:    stats,
		logger:   logger.With("component", "web"),
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/holidays", s.handleHolidays)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/cards", s.withDeck(s.handleCards))
	mux.HandleFunc("POST /api/cards/{id}/reveal", s.withDeck(s.handleReveal))
	mux.HandleFunc("POST /api/cards/{id}/close", s.withDeck(s.handleClose))

	mux.Handle("/api/holidays", methodNotAllowed(http.MethodGet))
	mux.Handle("/api/stats", methodNotAllowed(http.MethodGet))
	mux.Handle("/api/cards", methodNotAllowed(http.MethodGet))
	mux.Handle("/api/cards/{id}/reveal", methodNotAllowed(http.MethodPost))
	mux.Handle("/api/cards/{id}/close", methodNotAllowed(http.MethodPost))

	return s.logRequests(mux)
}

// Start listens on the configured port and blocks until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	if s.cfg.Port == "" {
		return errors.New("server port is required")
	}

	srv := &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	serverError := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "port", s.cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("server stopping")
		timeout := s.cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("server failed to start: %w", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"latency_ms", time.Since(start).Milliseconds(),
		)
	})
}
