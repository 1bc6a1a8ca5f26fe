package storage

import (
	"context"

	"memo-notes/database"
)

// SQLiteProvider is an adapter that implements the Provider interface using
// the kv_entries table
type SQLiteProvider struct {
	db   *database.DB
	repo *database.Repository
}

// NewSQLiteProvider wraps an opened and migrated database
func NewSQLiteProvider(db *database.DB) *SQLiteProvider {
	return &SQLiteProvider{
		db:   db,
		repo: database.NewRepository(db),
	}
}

func (s *SQLiteProvider) GetItem(_ context.Context, key string) (string, bool, error) {
	return s.repo.GetItem(key)
}

func (s *SQLiteProvider) SetItem(_ context.Context, key, value string) error {
	return s.repo.SetItem(key, value)
}

func (s *SQLiteProvider) RemoveItem(_ context.Context, key string) error {
	return s.repo.RemoveItem(key)
}

func (s *SQLiteProvider) Close() error {
	return s.db.Close()
}
