// Package storage defines the Backend interface and common types for the
// persisted session-state backends of the Filmcounts gateway.
//
// Each authenticated session carries a set of domain stores whose state is
// persisted under fixed keys ("auth-store", "budget-store", ...) namespaced by
// session ID — the server-side equivalent of the dashboard's browser local
// storage. Backends only see opaque key/value pairs; the JSON state envelope
// and token encryption are applied above this layer.
//
// New backends are added by implementing the Backend interface and registering
// with the factory via an init() function in the backend's own package:
//
//	func init() {
//	    storage.Register("mybackend", func(cfg *config.Config) (storage.Backend, error) {
//	        return NewMyBackend(cfg)
//	    })
//	}
//
// The main package imports each backend with a blank import to trigger init().
// Adding a new backend therefore requires no changes to the factory or main
// package beyond the blank import.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when no value exists under the given key.
var ErrNotFound = errors.New("storage: key not found")

// Backend is the persistence contract for session store state.
// Keys are slash-separated, with the session ID as the first segment
// (e.g. "3fa85f64/budget-store").
type Backend interface {
	// Save stores value under key, replacing any existing value
	Save(ctx context.Context, key string, value []byte) error

	// Load retrieves the value stored under key, or ErrNotFound
	Load(ctx context.Context, key string) ([]byte, error)

	// Delete removes the value stored under key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error

	// Keys lists all stored keys beginning with prefix
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// DeletePrefix removes every key beginning with prefix. It is a convenience
// built on Keys+Delete so individual backends need not implement bulk delete.
func DeletePrefix(ctx context.Context, b Backend, prefix string) error {
	keys, err := b.Keys(ctx, prefix)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := b.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}
