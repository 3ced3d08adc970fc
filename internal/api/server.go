package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yts/receipt-splitter-backend/internal/api/handlers"
	"github.com/yts/receipt-splitter-backend/internal/api/middleware"
	"github.com/yts/receipt-splitter-backend/internal/application/service"
	"github.com/yts/receipt-splitter-backend/internal/domain/registry"
	"github.com/yts/receipt-splitter-backend/internal/infrastructure/storage"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
	MaxUploadBytes int64
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		MaxUploadBytes: handlers.DefaultMaxUploadBytes,
	}
}

// Server is the HTTP API server.
type Server struct {
	config        Config
	router        *gin.Engine
	httpServer    *http.Server
	logger        *slog.Logger
	store         storage.Store
	categories    *registry.Registry
	importService *service.ImportService
}

// NewServer creates a new API server.
// If importService is nil, import endpoints will not be available.
func NewServer(cfg Config, store storage.Store, categories *registry.Registry, importService *service.ImportService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		config:        cfg,
		router:        gin.New(),
		logger:        logger,
		store:         store,
		categories:    categories,
		importService: importService,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())

	// Request logging; health probes are noise
	s.router.Use(middleware.RequestLogger(s.logger, "/health"))

	// CORS
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	healthHandler := handlers.NewHealthHandler()
	s.router.GET("/health", healthHandler.Check)

	// API routes
	api := s.router.Group("/api")
	{
		// Totals
		totalsHandler := handlers.NewTotalsHandler()
		api.POST("/totals", totalsHandler.Compute)

		// Shareable state
		stateHandler := handlers.NewStateHandler(s.store)
		api.GET("/state", stateHandler.Get)
		api.POST("/state/encode", stateHandler.Encode)

		// Categories
		categoriesHandler := handlers.NewCategoriesHandler(s.categories)
		api.GET("/categories", categoriesHandler.List)
		api.GET("/categories/suggest", categoriesHandler.Suggest)
		api.POST("/categories", categoriesHandler.Add)

		// Settings
		settingsHandler := handlers.NewSettingsHandler(s.store)
		api.GET("/settings/tax-rate", settingsHandler.GetTaxRate)
		api.PUT("/settings/tax-rate", settingsHandler.UpdateTaxRate)

		// Import runs (historical)
		runsHandler := handlers.NewRunsHandler(s.store)
		api.GET("/runs", runsHandler.List)
		api.GET("/runs/:id", runsHandler.Get)

		// Import operations (live import jobs)
		if s.importService != nil {
			importsHandler := handlers.NewImportsHandler(s.importService, s.config.MaxUploadBytes)
			api.POST("/imports", importsHandler.Start)
			api.GET("/imports", importsHandler.ListAll)
			api.GET("/imports/active", importsHandler.ListActive)
			api.GET("/imports/:jobId", importsHandler.Get)
			api.DELETE("/imports/:jobId", importsHandler.Cancel)
		}
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the gin engine for testing.
func (s *Server) Router() *gin.Engine {
	return s.router
}
