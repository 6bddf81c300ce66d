package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/osse101/PrizeArena_Go/internal/config"
	"github.com/osse101/PrizeArena_Go/internal/database"
)

// setup creates the configured database when missing and applies migrations.
func main() {
	skipCreate := flag.Bool("skip-create", false, "only apply migrations; assume the database exists")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *skipCreate); err != nil {
		slog.Error("Setup failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, skipCreate bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if !skipCreate {
		admin := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort)
		created, err := database.EnsureDatabase(ctx, admin, cfg.DBName)
		if err != nil {
			return err
		}
		if !created {
			slog.Info("Database already exists", "database", cfg.DBName)
		}
	}

	pool, err := database.NewPool(ctx, cfg.PoolConfig())
	if err != nil {
		return fmt.Errorf("connect to %s: %w", cfg.DBName, err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		return err
	}
	slog.Info("Setup complete", "database", cfg.DBName)
	return nil
}
