package stores

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/filmcounts/filmcounts-gateway/internal/config"
	"github.com/filmcounts/filmcounts-gateway/internal/crypto"
	"github.com/filmcounts/filmcounts-gateway/internal/session"
	"github.com/filmcounts/filmcounts-gateway/internal/storage"
	"github.com/filmcounts/filmcounts-gateway/internal/telemetry"
	"github.com/filmcounts/filmcounts-gateway/internal/upstream"
)

// ErrSessionLimit is returned when admitting a new session would exceed the
// configured maximum.
var ErrSessionLimit = errors.New("stores: active session limit reached")

// Manager owns the live session registries. A session is keyed by the hash of
// its bearer token; registries are created on first sight of a token, hydrated
// from the persistence backend, and evicted by logout or the sweeper.
type Manager struct {
	client  *upstream.Client
	backend storage.Backend
	cipher  *crypto.TokenCipher

	ttl         time.Duration
	maxSessions int

	mu       sync.Mutex
	sessions map[string]*managedSession
}

type managedSession struct {
	registry *Registry
	token    string
	lastSeen time.Time
}

// NewManager wires a session manager from configuration and shared
// infrastructure.
func NewManager(cfg *config.Config, client *upstream.Client, backend storage.Backend, cipher *crypto.TokenCipher) *Manager {
	return &Manager{
		client:      client,
		backend:     backend,
		cipher:      cipher,
		ttl:         cfg.Sessions.TTL,
		maxSessions: cfg.Sessions.MaxSessions,
		sessions:    make(map[string]*managedSession),
	}
}

// ForToken returns the registry for a bearer token, creating and hydrating it
// on first sight. A token with no persisted state is seeded into a minimal
// authenticated session; the platform rejects it on the first real call if it
// is stale.
func (m *Manager) ForToken(ctx context.Context, token string) (*Registry, error) {
	key := session.KeyForToken(token)

	m.mu.Lock()
	if ms, ok := m.sessions[key]; ok {
		ms.lastSeen = time.Now()
		m.mu.Unlock()
		return ms.registry, nil
	}
	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		m.mu.Unlock()
		return nil, ErrSessionLimit
	}
	m.mu.Unlock()

	// Hydration does backend I/O, so it runs outside the lock. Two racing
	// requests for the same new token both hydrate; admit keeps one.
	reg := NewRegistry(m.client, m.backend, m.cipher, key)
	reg.Hydrate(ctx)
	reg.Auth.SeedToken(ctx, token)

	return m.admit(key, token, reg)
}

// AnonymousRegistry returns an unkeyed, unpersisted registry for actions
// that legitimately run before any session exists: register, password reset,
// email verification. It is not tracked and holds no state worth keeping.
func (m *Manager) AnonymousRegistry() *Registry {
	return NewRegistry(m.client, nil, m.cipher, "")
}

// Login authenticates credentials through a fresh registry and, on success,
// admits it under the new access token's key.
func (m *Manager) Login(ctx context.Context, email, password string) (Result, *Registry) {
	reg := NewRegistry(m.client, m.backend, m.cipher, "")
	res := reg.Auth.Login(ctx, email, password)
	if !res.Success {
		return res, nil
	}

	token := reg.Auth.AccessToken()
	key := session.KeyForToken(token)
	reg.Rekey(key)
	reg.Auth.persistState(ctx)

	admitted, err := m.admit(key, token, reg)
	if err != nil {
		return Result{Error: err.Error()}, nil
	}
	return res, admitted
}

// admit registers a session, preferring an already-admitted registry for the
// same key over the newcomer.
func (m *Manager) admit(key, token string, reg *Registry) (*Registry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.sessions[key]; ok {
		existing.lastSeen = time.Now()
		return existing.registry, nil
	}
	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		return nil, ErrSessionLimit
	}
	m.sessions[key] = &managedSession{registry: reg, token: token, lastSeen: time.Now()}
	telemetry.ActiveSessions.Set(float64(len(m.sessions)))
	return reg, nil
}

// Logout tears down the session for a token, locally and on the platform.
func (m *Manager) Logout(ctx context.Context, token string) Result {
	key := session.KeyForToken(token)

	m.mu.Lock()
	ms, ok := m.sessions[key]
	delete(m.sessions, key)
	telemetry.ActiveSessions.Set(float64(len(m.sessions)))
	m.mu.Unlock()

	if !ok {
		// Nothing live, but persisted state may linger from a prior process.
		_ = storage.DeletePrefix(ctx, m.backend, key+"/")
		return Result{Success: true}
	}
	return ms.registry.Logout(ctx)
}

// ActiveCount reports the number of live sessions.
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep evicts sessions whose access token has expired or that have been idle
// past the TTL, and removes their persisted state. It returns the number of
// sessions evicted.
func (m *Manager) Sweep(ctx context.Context) int {
	now := time.Now()

	m.mu.Lock()
	var dead []*managedSession
	for key, ms := range m.sessions {
		if m.expired(ms, now) {
			dead = append(dead, ms)
			delete(m.sessions, key)
		}
	}
	telemetry.ActiveSessions.Set(float64(len(m.sessions)))
	m.mu.Unlock()

	for _, ms := range dead {
		key := ms.registry.SessionKey()
		if err := storage.DeletePrefix(ctx, m.backend, key+"/"); err != nil {
			slog.Warn("failed to remove persisted state of swept session", "session", key, "error", err)
		}
		telemetry.SessionsSweptTotal.Inc()
		slog.Info("swept expired session", "session", key)
	}
	return len(dead)
}

func (m *Manager) expired(ms *managedSession, now time.Time) bool {
	if exp, ok := session.TokenExpiry(ms.token); ok && now.After(exp) {
		return true
	}
	return m.ttl > 0 && now.Sub(ms.lastSeen) > m.ttl
}
