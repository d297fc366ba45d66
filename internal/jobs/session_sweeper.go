// Package jobs holds the gateway's background loops. Jobs follow one shape:
// a constructor taking their dependencies, Start(ctx) running the loop until
// the context is cancelled or Stop is called, and an immediate first run on
// startup so a restarted process converges without waiting a full interval.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/filmcounts/filmcounts-gateway/internal/config"
	"github.com/filmcounts/filmcounts-gateway/internal/stores"
)

// SessionSweeper periodically evicts dead sessions: those whose access token
// has expired and those idle past the configured TTL. Eviction removes both
// the in-memory registry and the session's persisted store state, so
// abandoned sessions do not accumulate token material in the backend.
type SessionSweeper struct {
	manager  *stores.Manager
	interval time.Duration
	stopChan chan struct{}
}

// NewSessionSweeper creates a sweeper over the given session manager.
// A non-positive sweep interval falls back to five minutes.
func NewSessionSweeper(manager *stores.Manager, cfg *config.SessionsConfig) *SessionSweeper {
	interval := cfg.SweepInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &SessionSweeper{
		manager:  manager,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start runs the sweep loop: once immediately, then on every interval tick,
// until ctx is cancelled or Stop is called.
func (s *SessionSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("session sweeper started", "interval", s.interval)

	s.sweep(ctx)

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopChan:
			slog.Info("session sweeper stopped")
			return
		case <-ctx.Done():
			slog.Info("session sweeper stopped", "reason", ctx.Err())
			return
		}
	}
}

// Stop ends the loop. Safe to call at most once.
func (s *SessionSweeper) Stop() {
	close(s.stopChan)
}

func (s *SessionSweeper) sweep(ctx context.Context) {
	swept := s.manager.Sweep(ctx)
	if swept > 0 {
		slog.Info("swept expired sessions", "count", swept, "active", s.manager.ActiveCount())
	}
}
