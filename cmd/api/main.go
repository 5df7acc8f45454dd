package main

import (
	"context"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	gymease "gymease-service"
	"gymease-service/internal/app"
	"gymease-service/internal/config"
	"gymease-service/internal/db"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[MAIN] No .env file found, relying on system env vars")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[MAIN] invalid configuration: %v", err)
	}

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("[MAIN] failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.RunMigrations {
		migrations, err := fs.Sub(gymease.MigrationsFS, "migrations")
		if err != nil {
			logger.Fatal("failed to open embedded migrations", zap.Error(err))
		}
		if err := db.RunMigrations(cfg.DatabaseURL, migrations, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.NewServer(cfg, logger).Start(ctx); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
	logger.Info("server stopped gracefully")
}

// newLogger is a development logger when APP_ENV=development, production otherwise.
func newLogger() (*zap.Logger, error) {
	if os.Getenv("APP_ENV") == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
