package storage

import (
	"context"
	"sync"
)

// MemoryAdapter keeps snapshots in process memory. Sessions share one adapter, so
// access is guarded.
type MemoryAdapter struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{data: make(map[string][]byte)}
}

func (m *MemoryAdapter) Read(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryAdapter) Write(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return ErrEmptyKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = append([]byte(nil), data...)
	return nil
}
