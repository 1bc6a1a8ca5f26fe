package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"memo-notes/database"
)

// Provider is the key-value persistence boundary. Values are whole
// serialized blobs; every SetItem replaces the previous value.
type Provider interface {
	// GetItem returns the value under key; found is false for absent keys
	GetItem(ctx context.Context, key string) (value string, found bool, err error)

	// SetItem overwrites the value under key
	SetItem(ctx context.Context, key, value string) error

	// RemoveItem deletes key, absent keys are ignored
	RemoveItem(ctx context.Context, key string) error

	// Close releases the backend connection
	Close() error
}

const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// ErrUnknownDriver is returned by New for an unsupported driver name
var ErrUnknownDriver = errors.New("unknown storage driver")

// Config selects and configures a backend
type Config struct {
	Driver        string
	DBPath        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// New creates the provider named by cfg.Driver
func New(ctx context.Context, cfg Config, logger *slog.Logger) (Provider, error) {
	switch cfg.Driver {
	case DriverSQLite, "":
		db, err := database.New(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("sqlite storage initialized", "path", cfg.DBPath)
		return NewSQLiteProvider(db), nil

	case DriverRedis:
		provider, err := NewRedisProvider(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPrefix)
		if err != nil {
			return nil, err
		}
		logger.Info("redis storage initialized", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
		return provider, nil

	case DriverMemory:
		logger.Warn("memory storage initialized, data will not survive a restart")
		return NewMemoryProvider(), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
