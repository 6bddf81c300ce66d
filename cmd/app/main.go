package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/PrizeArena_Go/internal/bootstrap"
	"github.com/osse101/PrizeArena_Go/internal/config"
)

const shutdownTimeout = 15 * time.Second

// @title PrizeArena API
// @version 1.0
// @description Tournament lifecycle and prize settlement service.
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	if err := config.ValidateEnv(); err != nil {
		slog.Warn("Environment validation failed", "error", err)
	}
	for _, w := range cfg.Warnings() {
		slog.Warn("Configuration warning", "detail", w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("Failed to start", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx, shutdownTimeout); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
