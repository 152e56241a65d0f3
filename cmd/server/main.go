// Package main is the entry point for the huddle server.
//
// main's job is reading configuration, creating the logger and the store
// connection, and handing everything to internal/server. All actual logic
// lives in the internal packages.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/huddleapp/huddle/internal/config"
	"github.com/huddleapp/huddle/internal/repository/mongodb"
	"github.com/huddleapp/huddle/internal/server"
)

const connectTimeout = 10 * time.Second

func main() {
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      logLevel(),
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	store, err := mongodb.New(ctx, cfg.MongoURI(), cfg.MongoDatabase)
	cancel()
	if err != nil {
		logger.Error("failed to connect to store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			logger.Error("failed to close store", slog.String("error", err.Error()))
		}
	}()
	logger.Info("connected to store", slog.String("database", cfg.MongoDatabase))

	srv, err := server.New(cfg, logger, store)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down via SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func logLevel() slog.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
