package storage_test

import (
	"context"
	"testing"

	"github.com/filmcounts/filmcounts-gateway/internal/config"
	"github.com/filmcounts/filmcounts-gateway/internal/storage"
)

// ---------------------------------------------------------------------------
// Minimal mock Backend implementation for Register tests
// ---------------------------------------------------------------------------

type mockBackend struct {
	deleted []string
	keys    []string
}

func (m *mockBackend) Save(_ context.Context, _ string, _ []byte) error { return nil }
func (m *mockBackend) Load(_ context.Context, _ string) ([]byte, error) {
	return nil, storage.ErrNotFound
}
func (m *mockBackend) Delete(_ context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	return nil
}
func (m *mockBackend) Keys(_ context.Context, _ string) ([]string, error) { return m.keys, nil }

// ---------------------------------------------------------------------------
// Register / NewBackend
// ---------------------------------------------------------------------------

func TestRegister_AddsFactory(t *testing.T) {
	storage.Register("test-backend", func(_ *config.Config) (storage.Backend, error) {
		return &mockBackend{}, nil
	})

	cfg := &config.Config{}
	cfg.Sessions.Backend = "test-backend"

	b, err := storage.NewBackend(cfg)
	if err != nil {
		t.Fatalf("NewBackend() error: %v", err)
	}
	if b == nil {
		t.Fatal("NewBackend() returned nil")
	}
}

func TestNewBackend_UnknownBackend(t *testing.T) {
	cfg := &config.Config{}
	cfg.Sessions.Backend = "completely-unknown-backend"

	if _, err := storage.NewBackend(cfg); err == nil {
		t.Error("NewBackend() = nil error, want error for unregistered backend")
	}
}

// ---------------------------------------------------------------------------
// DeletePrefix
// ---------------------------------------------------------------------------

func TestDeletePrefix_DeletesEveryMatch(t *testing.T) {
	m := &mockBackend{keys: []string{"sess1/auth-store", "sess1/budget-store"}}

	if err := storage.DeletePrefix(context.Background(), m, "sess1/"); err != nil {
		t.Fatalf("DeletePrefix() error: %v", err)
	}
	if len(m.deleted) != 2 {
		t.Errorf("deleted %d keys, want 2: %v", len(m.deleted), m.deleted)
	}
}
