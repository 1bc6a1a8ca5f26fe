package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"memo-notes/config"
	"memo-notes/config/setup"
)

func main() {
	if err := config.Load(); err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	cfg := config.AppConfig

	logger := setupLogger(cfg)
	slog.SetDefault(logger)

	ctx := context.Background()

	provider, err := setup.InitStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}

	application, err := setup.InitApp(ctx, cfg, provider, logger)
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		setup.Shutdown(provider, logger)
		os.Exit(1)
	}

	app := setup.NewFiberApp(cfg, logger)
	setup.ApplyMiddleware(app, cfg, logger)
	setup.RegisterRoutes(app, application)

	logger.Info("starting server", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreDriver)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	setup.Shutdown(provider, logger)
	logger.Info("server stopped")
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     getLogLevel(cfg.LogLevel),
		AddSource: cfg.Env == "development",
	}

	if cfg.Env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

func getLogLevel(level string) slog.Level {
	switch level {
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
