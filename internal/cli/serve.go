package cli

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yts/receipt-splitter-backend/internal/api"
	"github.com/yts/receipt-splitter-backend/internal/application/service"
	"github.com/yts/receipt-splitter-backend/internal/domain/registry"
	"github.com/yts/receipt-splitter-backend/internal/importer"
	"github.com/yts/receipt-splitter-backend/internal/infrastructure/config"
	"github.com/yts/receipt-splitter-backend/internal/infrastructure/logging"
	"github.com/yts/receipt-splitter-backend/internal/infrastructure/storage"
)

// ServeFlags holds the CLI flags for the serve command.
type ServeFlags struct {
	Port    int
	Verbose bool
}

// ParseServeFlags parses command line flags for the serve command.
func ParseServeFlags() *ServeFlags {
	flags := &ServeFlags{}
	flag.IntVar(&flags.Port, "port", 0, "Port to listen on (overrides the configured port)")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	flag.Parse()
	return flags
}

// RunServe runs the API server.
func RunServe(cfg *config.Config, flags *ServeFlags) error {
	// Set up logging
	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(loggingCfg, "api")

	// Initialize storage
	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	// Category registry backed by the settings store
	categories := registry.NewRegistry(store)

	// Receipt recognition pipeline and the import service around it
	extractor := importer.NewExtractor(importer.Options{
		TesseractPath: cfg.Import.TesseractPath,
		PdftoppmPath:  cfg.Import.PdftoppmPath,
		Languages:     cfg.Import.Languages,
	})
	importLogger := logging.NewLoggerWithSystem(loggingCfg, "import")
	importService := service.NewImportService(store, extractor, importLogger, cfg.Import.MaxActiveJobs)
	importService.StartBackgroundCleanup(time.Minute)
	defer importService.StopBackgroundCleanup()

	// Create API config
	apiCfg := api.DefaultConfig()
	if cfg.Server.Port > 0 {
		apiCfg.Port = cfg.Server.Port
	}
	if flags.Port > 0 {
		apiCfg.Port = flags.Port
	}
	if len(cfg.Server.AllowedOrigins) > 0 {
		apiCfg.AllowedOrigins = cfg.Server.AllowedOrigins
	}
	if cfg.Import.MaxUploadBytes > 0 {
		apiCfg.MaxUploadBytes = cfg.Import.MaxUploadBytes
	}

	// Create and start server
	server := api.NewServer(apiCfg, store, categories, importService, logger)

	// Handle graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("received shutdown signal")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown error", slog.Any("error", err))
		}
		close(done)
	}()

	// Start server (blocks until shutdown)
	if err := server.Start(); err != nil {
		return err
	}

	<-done
	logger.Info("server stopped")
	return nil
}
