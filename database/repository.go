package database

import (
	"database/sql"
	"errors"
	"time"
)

type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// ==================== KEY-VALUE ENTRIES ====================

// GetItem returns the stored value for key. found is false when the key
// has never been written.
func (r *Repository) GetItem(key string) (string, bool, error) {
	var value string
	err := r.db.Get(&value, `SELECT value FROM kv_entries WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetItem overwrites the value stored under key
func (r *Repository) SetItem(key, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, time.Now())
	return err
}

// RemoveItem deletes key. Removing an absent key is not an error.
func (r *Repository) RemoveItem(key string) error {
	_, err := r.db.Exec(`DELETE FROM kv_entries WHERE key = ?`, key)
	return err
}
