package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/yts/receipt-splitter-backend/internal/cli"
	"github.com/yts/receipt-splitter-backend/internal/infrastructure/config"
	"github.com/yts/receipt-splitter-backend/internal/infrastructure/logging"
)

func main() {
	// Load .env if present; deployed environments set variables directly
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "Configuration file path")
	flags := cli.ParseServeFlags()

	cfg := config.LoadOrEnv_WithPath(*configPath)

	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "cli")

	if err := cli.RunServe(cfg, flags); err != nil {
		logger.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
