package services

import "context"

// KeyValueStore defines the persistence surface the memo store needs.
// storage.Provider satisfies it.
type KeyValueStore interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
}
