package session

import (
	"context"
	"errors"
	"sync"
)

// ErrKeyNotFound is returned by a KV when nothing is stored under a key
var ErrKeyNotFound = errors.New("key not found")

// KV is the key-value medium the envelope is persisted in
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// MemoryKV keeps values in process memory. It backs tests and runs the
// storefront in degraded mode when Redis is unreachable.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryKV creates an empty in-memory KV
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = value
	return nil
}
