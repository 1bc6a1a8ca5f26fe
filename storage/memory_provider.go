package storage

import (
	"context"
	"sync"
)

// MemoryProvider keeps values in a map. Used by tests and STORE_DRIVER=memory.
type MemoryProvider struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{items: make(map[string]string)}
}

func (m *MemoryProvider) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.items[key]
	return value, ok, nil
}

func (m *MemoryProvider) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = value
	return nil
}

func (m *MemoryProvider) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)
	return nil
}

func (m *MemoryProvider) Close() error {
	return nil
}
