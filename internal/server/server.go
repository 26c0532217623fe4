package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/tobilg/dashconv/internal/config"
	"github.com/tobilg/dashconv/internal/converter"
	"github.com/tobilg/dashconv/internal/handlers"
	"github.com/tobilg/dashconv/internal/logger"
	"github.com/tobilg/dashconv/internal/metrics"
	appMiddleware "github.com/tobilg/dashconv/internal/middleware"
	"github.com/tobilg/dashconv/internal/storage"
	"github.com/tobilg/dashconv/internal/websocket"
	"github.com/tobilg/dashconv/pkg/compression"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

type Server struct {
	router  chi.Router
	storage *storage.DuckDBStore
	wsHub   *websocket.Hub
	metrics *metrics.Metrics
	config  *config.Config

	stopHub context.CancelFunc

	// HTTP server for graceful shutdown
	apiServer *http.Server
	mu        sync.Mutex
}

func New(cfg *config.Config) (*Server, error) {
	layout, err := converter.ParseLayoutStrategy(cfg.LayoutStrategy)
	if err != nil {
		return nil, fmt.Errorf("invalid layout strategy: %w", err)
	}

	store, err := storage.NewDuckDBStore(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	hub := websocket.NewHub()
	go hub.Run(hubCtx)

	// Browser origins permitted to subscribe to /ws
	hub.AllowOrigins(allowedOrigins(cfg))

	s := &Server{
		router:  chi.NewRouter(),
		storage: store,
		wsHub:   hub,
		metrics: metrics.New(),
		config:  cfg,
		stopHub: stopHub,
	}

	s.setupMiddleware()

	h := handlers.New(store, hub, s.metrics, layout)
	s.setupRoutes(h)

	return s, nil
}

func allowedOrigins(cfg *config.Config) []string {
	origins := []string{"http://localhost:5173", fmt.Sprintf("http://localhost:%d", cfg.APIPort)}
	if cfg.FrontendURL != "" {
		origins = append([]string{cfg.FrontendURL}, origins...)
	}
	return origins
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(RequestLogger)
	s.router.Use(middleware.Recoverer)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(s.config),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Encoding", "X-Requested-With"},
		ExposedHeaders:   []string{"Link", handlers.ConversionIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Large classic exports are often uploaded compressed
	s.router.Use(compression.DecompressMiddleware)

	appMiddleware.Limits{
		MaxBodyBytes: s.config.MaxUploadBytes(),
		Timeout:      s.config.RequestTimeout(),
	}.Apply(s.router)
}

// Handler returns the fully wired router
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) ListenAndServe() error {
	log := logger.Logger()

	addr := fmt.Sprintf(":%d", s.config.APIPort)
	h2s := &http2.Server{}
	handler := h2c.NewHandler(s.router, h2s)

	s.mu.Lock()
	// WriteTimeout is disabled so WebSocket connections can stay open
	s.apiServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}
	srv := s.apiServer
	s.mu.Unlock()

	log.Info("API server starting",
		"addr", addr,
		"protocol", "HTTP/1.1 + h2c",
		"endpoints", "POST /api/convert, GET /api/*, /ws, /metrics, /health",
	)

	return srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down server")

	var errs []error

	s.mu.Lock()
	apiServer := s.apiServer
	s.mu.Unlock()

	if apiServer != nil {
		if err := apiServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutting down API server: %w", err))
		}
	}

	s.stopHub()
	select {
	case <-s.wsHub.Done():
	case <-ctx.Done():
		errs = append(errs, fmt.Errorf("stopping websocket hub: %w", ctx.Err()))
	}

	if err := s.storage.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing storage: %w", err))
	}

	return errors.Join(errs...)
}
