package setup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"memo-notes/app"
	"memo-notes/config"
	"memo-notes/services"
	"memo-notes/storage"
)

// InitStorage opens the key-value backend selected by STORE_DRIVER
func InitStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Provider, error) {
	return storage.New(ctx, storage.Config{
		Driver:        cfg.StoreDriver,
		DBPath:        cfg.DBPath,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		RedisPrefix:   cfg.RedisPrefix,
	}, logger)
}

// InitApp loads the memo store from the provider and builds the App
func InitApp(ctx context.Context, cfg *config.Config, provider storage.Provider, logger *slog.Logger) (*app.App, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	store, err := services.NewMemoStore(ctx, provider,
		services.WithTimestampFormat(cfg.TimestampLayout, loc),
		services.WithDefaultTitle(cfg.DefaultTitle),
		services.WithMaxImages(cfg.MaxImagesPerMemo),
		services.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load memos: %w", err)
	}
	application := app.New(store, provider, logger, cfg.MaxImageBytes, cfg.MaxImagesPerMemo)
	logger.Info("application initialized with dependency injection")

	return application, nil
}

// Shutdown releases the storage backend
func Shutdown(provider storage.Provider, logger *slog.Logger) {
	logger.Info("shutting down services...")

	if provider != nil {
		if err := provider.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
			return
		}
		logger.Info("storage closed")
	}
}
