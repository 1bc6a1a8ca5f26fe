package app

import (
	"log/slog"

	"memo-notes/services"
	"memo-notes/storage"
	"memo-notes/validator"
)

// App holds all application dependencies
// This struct is the central point for dependency injection
type App struct {
	Store     *services.MemoStore
	Storage   storage.Provider
	Validator *validator.Validator
	Logger    *slog.Logger

	// Upload limits. MaxImagesPerMemo keeps a full memo save within the
	// request body limit.
	MaxImageBytes    int64
	MaxImagesPerMemo int
}

// New creates a new App instance with all dependencies
func New(store *services.MemoStore, provider storage.Provider, logger *slog.Logger, maxImageBytes int64, maxImagesPerMemo int) *App {
	return &App{
		Store:            store,
		Storage:          provider,
		Validator:        validator.New(),
		Logger:           logger,
		MaxImageBytes:    maxImageBytes,
		MaxImagesPerMemo: maxImagesPerMemo,
	}
}
