// Package memory implements an in-process session-state backend. State is lost on
// restart, which matches the original dashboard's behavior when local storage is
// unavailable; it is the default backend in tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/filmcounts/filmcounts-gateway/internal/config"
	"github.com/filmcounts/filmcounts-gateway/internal/storage"
)

func init() {
	storage.Register("memory", func(_ *config.Config) (storage.Backend, error) {
		return New(), nil
	})
}

// MemoryBackend implements the Backend interface over a mutex-guarded map.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New creates an empty in-memory session backend
func New() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

// Save stores value under key, replacing any existing value
func (b *MemoryBackend) Save(_ context.Context, key string, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	b.mu.Lock()
	b.data[key] = cp
	b.mu.Unlock()
	return nil
}

// Load retrieves the value stored under key
func (b *MemoryBackend) Load(_ context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	v, ok := b.data[key]
	b.mu.RUnlock()
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, nil
}

// Delete removes the value stored under key
func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	delete(b.data, key)
	b.mu.Unlock()
	return nil
}

// Keys lists all stored keys beginning with prefix
func (b *MemoryBackend) Keys(_ context.Context, prefix string) ([]string, error) {
	b.mu.RLock()
	keys := make([]string, 0, len(b.data))
	for k := range b.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	b.mu.RUnlock()
	sort.Strings(keys)
	return keys, nil
}
