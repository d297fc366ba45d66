// Package local implements the local filesystem session-state backend. This backend is
// intended for development and single-node deployments only — it does not support
// horizontal scaling (multiple gateway instances would need access to the same
// filesystem, e.g., via NFS). For multi-instance deployments, use the redis or
// postgres backend.
package local

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/filmcounts/filmcounts-gateway/internal/config"
	"github.com/filmcounts/filmcounts-gateway/internal/storage"
)

func init() {
	storage.Register("local", func(cfg *config.Config) (storage.Backend, error) {
		return New(&cfg.Sessions.Local)
	})
}

// LocalBackend implements the Backend interface over a directory tree.
// The first key segment (session ID) becomes a directory; the remainder a file.
type LocalBackend struct {
	basePath string
}

// New creates a new local filesystem session backend
func New(cfg *config.LocalSessionsConfig) (*LocalBackend, error) {
	if err := os.MkdirAll(cfg.BasePath, 0750); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &LocalBackend{basePath: cfg.BasePath}, nil
}

// keyPath maps a storage key to a filesystem path, rejecting traversal attempts.
// A key "abc123/budget-store" becomes "<base>/abc123/budget-store.json".
func (b *LocalBackend) keyPath(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid session key: %q", key)
	}
	full := filepath.Join(b.basePath, filepath.FromSlash(key)+".json")
	// Join cleans the path; a result escaping basePath means the key was hostile.
	if !strings.HasPrefix(full, filepath.Clean(b.basePath)+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid session key: %q", key)
	}
	return full, nil
}

// Save stores value under key, replacing any existing value
func (b *LocalBackend) Save(_ context.Context, key string, value []byte) error {
	path, err := b.keyPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Write-then-rename so a crash mid-write never leaves a torn state file.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0600); err != nil {
		return fmt.Errorf("failed to write session state: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to commit session state: %w", err)
	}
	return nil
}

// Load retrieves the value stored under key
func (b *LocalBackend) Load(_ context.Context, key string) ([]byte, error) {
	path, err := b.keyPath(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path is derived from a validated key under basePath
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read session state: %w", err)
	}
	return data, nil
}

// Delete removes the value stored under key
func (b *LocalBackend) Delete(_ context.Context, key string) error {
	path, err := b.keyPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session state: %w", err)
	}
	// Opportunistically remove the session directory once empty.
	_ = os.Remove(filepath.Dir(path))
	return nil
}

// Keys lists all stored keys beginning with prefix
func (b *LocalBackend) Keys(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(b.basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		rel, err := filepath.Rel(b.basePath, path)
		if err != nil {
			return err
		}
		key := strings.TrimSuffix(filepath.ToSlash(rel), ".json")
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list session keys: %w", err)
	}
	return keys, nil
}
