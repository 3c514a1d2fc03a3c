// Package api provides the HTTP server for stocksentiment.
//
// It exposes endpoints for ticker news analysis, custom text scoring,
// quotes, cached results, Prometheus metrics and WebSocket progress
// streaming, and serves the embedded dashboard at /.
package api

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/seenimoa/stocksentiment/internal/analysis/sentiment"
	"github.com/seenimoa/stocksentiment/internal/config"
	"github.com/seenimoa/stocksentiment/internal/datasource"
	"github.com/seenimoa/stocksentiment/internal/infra"
	"github.com/seenimoa/stocksentiment/internal/logging"
	"github.com/seenimoa/stocksentiment/internal/pipeline"
	"github.com/seenimoa/stocksentiment/internal/telemetry"
	"github.com/seenimoa/stocksentiment/pkg/models"
	"github.com/seenimoa/stocksentiment/web"
)

// Analyzer runs one news sentiment analysis.
type Analyzer interface {
	Analyze(ctx context.Context, ticker string, count int, rep pipeline.Reporter) *models.AnalysisResult
}

// Deps are the collaborators the server needs.
type Deps struct {
	Analyzer Analyzer
	Quotes   datasource.QuoteProvider // optional; quotes are skipped when nil
	Scorer   *sentiment.Scorer
	Cache    infra.ResultCache
	Metrics  *telemetry.Metrics // optional; /metrics is not mounted when nil
	Logger   logging.Logger
}

// Server is the HTTP API server.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	deps     Deps
	log      logging.Logger
	validate *validator.Validate
	wsHub    *WSHub
	serveUI  bool // when true, serve the embedded web UI at /

	stopHub context.CancelFunc
}

// NewServer creates a configured API server with all routes and middleware.
// The WebSocket hub starts immediately; call Close to stop it.
func NewServer(cfg *config.Config, deps Deps) (*Server, error) {
	if deps.Analyzer == nil || deps.Scorer == nil || deps.Cache == nil {
		return nil, errors.New("api: analyzer, scorer and cache are required")
	}
	if deps.Logger == nil {
		deps.Logger = logging.NewNop()
	}

	hubCtx, stop := context.WithCancel(context.Background())
	srv := &Server{
		cfg:      cfg,
		deps:     deps,
		log:      deps.Logger,
		validate: validator.New(),
		wsHub:    NewWSHub(),
		serveUI:  cfg.API.ServeUI,
		stopHub:  stop,
	}
	go srv.wsHub.Run(hubCtx)

	srv.router = srv.buildRouter()
	return srv, nil
}

// SetServeUI controls whether the embedded web UI is served.
// Must be called before ListenAndServe.
func (s *Server) SetServeUI(enabled bool) {
	s.serveUI = enabled
	s.router = s.buildRouter()
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// Close stops the WebSocket hub.
func (s *Server) Close() {
	s.stopHub()
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", logging.String("addr", addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	defer s.Close()

	return httpSrv.Shutdown(shutdownCtx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", s.handleHealth)

	if s.deps.Metrics != nil {
		r.Handle("/metrics", s.deps.Metrics.Handler())
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health (also available at /health)
		r.Get("/health", s.handleHealth)

		// Analysis
		r.With(middleware.Timeout(3*time.Minute)).Post("/analyze", s.handleAnalyze)
		r.Get("/analysis/{ticker}", s.handleGetAnalysis)
		r.Delete("/analysis/{ticker}", s.handleDeleteAnalysis)

		// Custom text
		r.Post("/sentiment", s.handleSentiment)

		// Quotes
		r.Get("/quote/{ticker}", s.handleQuote)

		// Configuration
		r.Get("/config", s.handleGetConfig)
		r.Get("/config/secrets", s.handleGetConfigSecrets)

		// WebSocket progress stream
		r.Get("/ws", s.handleWebSocket)
	})

	// Serve embedded web UI
	if s.serveUI {
		distFS, err := web.DistFS()
		if err != nil {
			s.log.Error("Embedded web UI unavailable", logging.Error(err))
		} else {
			s.mountSPA(r, distFS)
		}
	}

	return r
}

// mountSPA serves the embedded dashboard. Unknown paths fall back to
// index.html.
func (s *Server) mountSPA(r chi.Router, distFS fs.FS) {
	fileServer := http.FileServerFS(distFS)

	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		rPath := strings.TrimPrefix(r.URL.Path, "/")
		if rPath == "" {
			rPath = "index.html"
		}

		// Try to open the requested file from the embedded FS
		f, err := distFS.Open(rPath)
		if err != nil {
			serveIndexHTML(w, distFS)
			return
		}
		f.Close()

		if rPath == "index.html" || strings.HasSuffix(rPath, ".html") {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		}

		fileServer.ServeHTTP(w, r)
	})
}

// serveIndexHTML reads and serves the embedded index.html.
func serveIndexHTML(w http.ResponseWriter, distFS fs.FS) {
	data, err := fs.ReadFile(distFS, "index.html")
	if err != nil {
		http.Error(w, "web UI not available", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck
}
