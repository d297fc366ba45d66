// factory.go implements the storage backend registry and factory, mapping backend type
// strings (local, memory, redis, postgres) to constructor functions and dispatching
// NewBackend calls.
package storage

import (
	"fmt"

	"github.com/filmcounts/filmcounts-gateway/internal/config"
)

// FactoryFunc constructs a storage backend from configuration
type FactoryFunc func(*config.Config) (Backend, error)

var factories = make(map[string]FactoryFunc)

// Register registers a storage backend factory
func Register(name string, factory FactoryFunc) {
	factories[name] = factory
}

// NewBackend creates the session-state backend selected by sessions.backend
func NewBackend(cfg *config.Config) (Backend, error) {
	factory, ok := factories[cfg.Sessions.Backend]
	if !ok {
		return nil, fmt.Errorf("unsupported session backend: %s (must be 'local', 'memory', 'redis', or 'postgres')", cfg.Sessions.Backend)
	}

	return factory(cfg)
}
