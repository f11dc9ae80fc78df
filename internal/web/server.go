// Package web serves the interactive chart over HTTP.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/penwyp/go-pkviz/internal/application/dashboard"
	"github.com/penwyp/go-pkviz/internal/metrics"
	"github.com/penwyp/go-pkviz/internal/presentation/render"
	"github.com/penwyp/go-pkviz/internal/util"
)

type Server struct {
	config   *Config
	loader   dashboard.DataSource
	metrics  *metrics.Metrics
	sessions *SessionStore
	renderer *render.EChartsRenderer
	router   *http.ServeMux
}

// NewServer creates a server for a validated config. Sessions share loader
// and therefore its table cache. m may be nil.
func NewServer(config *Config, loader dashboard.DataSource, m *metrics.Metrics) *Server {
	s := &Server{
		config:   config,
		loader:   loader,
		metrics:  m,
		renderer: render.NewEChartsRenderer(),
		router:   http.NewServeMux(),
	}
	s.sessions = NewSessionStore(config.SessionTTL, config.MaxSessions, func(id string) *dashboard.Session {
		return dashboard.NewSession(id, config.Dashboard, loader, m)
	}, m)
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /health", s.instrument("health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))

	s.router.HandleFunc("GET /{$}", s.instrument("page", s.handlePage))
	s.router.HandleFunc("GET /api/chart", s.instrument("chart", s.handleChart))
	s.router.HandleFunc("GET /api/options", s.instrument("options", s.handleOptions))
	s.router.HandleFunc("GET /api/summary", s.instrument("summary", s.handleSummary))
	s.router.HandleFunc("GET /api/export", s.instrument("export", s.handleExport))

	s.router.Handle("GET /metrics", s.metrics.Handler())
}

// Handler exposes the routes, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
	}

	util.LogInfo("Starting go-pkviz server", util.Field{Key: "addr", Value: s.config.Addr})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			util.LogError("Server shutdown error", util.Field{Key: "error", Value: err.Error()})
		}
	}()

	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.config.Addr, err)
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		h(rec, r)
		s.metrics.ObserveRequest(route, rec.code)
		util.LogDebug("HTTP request",
			util.Field{Key: "route", Value: route},
			util.Field{Key: "code", Value: rec.code},
			util.Field{Key: "elapsed", Value: time.Since(start).String()})
	}
}
