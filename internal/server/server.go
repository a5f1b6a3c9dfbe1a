// Package server provides the HTTP server for the sign recognition system.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ayusman/signbridge/internal/gesture"
	"github.com/ayusman/signbridge/internal/metrics"
	"github.com/ayusman/signbridge/internal/server/api"
	"github.com/ayusman/signbridge/internal/speech"
	"github.com/ayusman/signbridge/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	// Dispatcher classifies frames posted to /api/classify. Defaults to the reference policy.
	Dispatcher *gesture.Dispatcher
	// Resolver maps speech to clips. Defaults to the built-in mapping.
	Resolver *speech.Resolver
	// Pipeline, when set, exposes the live detector's status and toggle.
	Pipeline api.Pipeline
	// Hub, when set, serves live events on /api/stream.
	Hub *Hub
	// Speech, when set, is notified of every resolved speech request.
	Speech  api.SpeechNotifier
	Metrics bool
	Logger  *zap.Logger
}

// Server represents the HTTP server.
type Server struct {
	config     Config
	router     chi.Router
	httpServer *http.Server
	logger     *zap.Logger
	start      time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if config.Dispatcher == nil {
		config.Dispatcher = gesture.NewDispatcher(gesture.DefaultOptions())
	}
	if config.Resolver == nil {
		config.Resolver = speech.NewResolver(speech.DefaultMapping())
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		config: config,
		router: chi.NewRouter(),
		logger: logger,
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	r := s.router
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chiMiddleware.Recoverer)

	classifyHandler := api.NewClassifyHandler(s.config.Dispatcher, s.logger)
	clipHandler := api.NewClipHandler(s.config.Store, s.config.Resolver, s.logger)
	speechHandler := api.NewSpeechHandler(s.config.Resolver, s.config.Speech)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/classify", classifyHandler.Classify)
		r.Post("/speech", speechHandler.Resolve)

		r.Get("/clips", clipHandler.List)
		r.Put("/clips/{phrase}", clipHandler.Put)
		r.Delete("/clips/{phrase}", clipHandler.Delete)

		if s.config.Store != nil {
			detectionHandler := api.NewDetectionHandler(s.config.Store)
			r.Get("/detections", detectionHandler.List)
		}

		if s.config.Pipeline != nil {
			statusHandler := api.NewStatusHandler(s.config.Pipeline)
			r.Get("/status", statusHandler.Get)
			r.Put("/status", statusHandler.Update)
		}

		if s.config.Hub != nil {
			r.Get("/stream", s.config.Hub.ServeHTTP)
		}
	})

	if s.config.Metrics {
		r.Handle("/metrics", metrics.Handler())
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// requestLogger logs each request through zap.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", chiMiddleware.GetReqID(r.Context())))
		})
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// Start listens on addr and serves until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("http server listening", zap.String("addr", addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.config.Hub != nil {
		s.config.Hub.Close()
	}
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
