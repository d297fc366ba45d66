// Package stores implements the per-session domain stores of the Filmcounts
// gateway. Each authenticated session owns one instance of every store; a
// store caches one slice of platform state (budgets, companies, suppliers, …),
// mutates that cache in lockstep with the platform calls it issues, and
// persists its state under a fixed key through the configured storage backend.
//
// Store actions follow a shared lifecycle: list responses replace the cached
// collection, create responses append the created row, update responses
// replace the matching row by its id, and delete removes the row by id. Every
// authenticated action refuses to run without an access token, and every
// action is tracked in a per-request in-flight set so concurrent requests
// cannot clear each other's busy state.
package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/filmcounts/filmcounts-gateway/internal/storage"
	"github.com/filmcounts/filmcounts-gateway/internal/telemetry"
	"github.com/filmcounts/filmcounts-gateway/internal/upstream"
)

// MsgNoAccessToken is the exact preflight error emitted when an authenticated
// action runs without a token. Dashboard clients match on this string, so it
// must never change.
const MsgNoAccessToken = "No access token available"

// stateVersion is the version stamped into every persisted state envelope.
// Loading a different version discards the stored state instead of guessing.
const stateVersion = 1

// Row is one entity record as the platform returns it. Rows are schemaless on
// purpose: the platform owns the shape and the gateway only requires the
// identity field.
type Row = map[string]any

// Result is the uniform outcome of a store action. Error carries preflight and
// transport problems, Message carries business rejections from the platform.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func failure(message string) Result { return Result{Message: message} }

// store is the embedded base of every domain store: upstream access, the
// persistence slot, the token source, and the in-flight request set.
type store struct {
	name       string // metrics label, e.g. "budget-store"
	persistKey string // storage key suffix; empty disables persistence

	client  *upstream.Client
	backend storage.Backend
	token   func() string

	mu         sync.Mutex
	sessionKey string
	inflight   map[string]struct{}
}

func newStore(name, persistKey string, client *upstream.Client, backend storage.Backend, sessionKey string, token func() string) store {
	return store{
		name:       name,
		persistKey: persistKey,
		client:     client,
		backend:    backend,
		sessionKey: sessionKey,
		token:      token,
		inflight:   make(map[string]struct{}),
	}
}

// Loading reports whether any action of this store is currently in flight.
func (s *store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inflight) > 0
}

func (s *store) begin() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.inflight[id] = struct{}{}
	s.mu.Unlock()
	return id
}

func (s *store) end(id string) {
	s.mu.Lock()
	delete(s.inflight, id)
	s.mu.Unlock()
}

// do performs one authenticated platform call on behalf of a store action.
// Without an access token the call never leaves the process.
func (s *store) do(ctx context.Context, action string, req upstream.Request) upstream.Result {
	tok := ""
	if s.token != nil {
		tok = s.token()
	}
	if tok == "" {
		telemetry.StoreActionsTotal.WithLabelValues(s.name, action, "unauthenticated").Inc()
		return upstream.Result{Error: MsgNoAccessToken}
	}
	req.Token = tok
	return s.doAnonymous(ctx, action, req)
}

// doAnonymous performs a platform call that may legitimately run without a
// token (login, register, password reset).
func (s *store) doAnonymous(ctx context.Context, action string, req upstream.Request) upstream.Result {
	id := s.begin()
	defer s.end(id)

	res := s.client.Call(ctx, req)

	outcome := "success"
	if !res.Success {
		outcome = "failure"
	}
	telemetry.StoreActionsTotal.WithLabelValues(s.name, action, outcome).Inc()
	return res
}

// persistedEnvelope wraps serialized store state for storage.
type persistedEnvelope struct {
	State   json.RawMessage `json:"state"`
	Version int             `json:"version"`
}

func (s *store) storageKey() string {
	return s.sessionKey + "/" + s.persistKey
}

// persist writes the store's state through the backend. Persistence failures
// are logged and swallowed: the in-memory state is authoritative for the
// session's lifetime and a dead backend must not fail user actions.
func (s *store) persist(ctx context.Context, state any) {
	if s.backend == nil || s.persistKey == "" || s.sessionKey == "" {
		return
	}
	raw, err := json.Marshal(state)
	if err != nil {
		slog.Error("failed to serialize store state", "store", s.name, "error", err)
		return
	}
	buf, err := json.Marshal(persistedEnvelope{State: raw, Version: stateVersion})
	if err != nil {
		slog.Error("failed to serialize state envelope", "store", s.name, "error", err)
		return
	}
	if err := s.backend.Save(ctx, s.storageKey(), buf); err != nil {
		slog.Warn("failed to persist store state", "store", s.name, "key", s.storageKey(), "error", err)
	}
}

// restore loads persisted state into the given target. It reports false when
// nothing usable is stored; a version mismatch or corrupt payload is treated
// as absent state, not an error.
func (s *store) restore(ctx context.Context, into any) bool {
	if s.backend == nil || s.persistKey == "" || s.sessionKey == "" {
		return false
	}
	buf, err := s.backend.Load(ctx, s.storageKey())
	if err != nil {
		return false
	}
	var env persistedEnvelope
	if err := json.Unmarshal(buf, &env); err != nil || env.Version != stateVersion {
		slog.Warn("discarding unreadable persisted state", "store", s.name, "key", s.storageKey())
		return false
	}
	if err := json.Unmarshal(env.State, into); err != nil {
		slog.Warn("discarding unreadable persisted state", "store", s.name, "key", s.storageKey())
		return false
	}
	return true
}

// clearPersisted removes the store's persisted state.
func (s *store) clearPersisted(ctx context.Context) {
	if s.backend == nil || s.persistKey == "" || s.sessionKey == "" {
		return
	}
	if err := s.backend.Delete(ctx, s.storageKey()); err != nil {
		slog.Warn("failed to clear persisted store state", "store", s.name, "error", err)
	}
}

// ---------------------------------------------------------------------------
// Row collection helpers
// ---------------------------------------------------------------------------

// RowID extracts the row identity from its "id" or "_id" field, stringified.
// Rows without either field have no identity and cannot be updated or deleted.
func RowID(r Row) (string, bool) {
	for _, field := range []string{"id", "_id"} {
		v, present := r[field]
		if !present || v == nil {
			continue
		}
		switch id := v.(type) {
		case string:
			if id != "" {
				return id, true
			}
		case float64:
			return fmt.Sprintf("%v", id), true
		default:
			return fmt.Sprintf("%v", id), true
		}
	}
	return "", false
}

// decodeRows interprets a platform data payload as a row collection. Lists
// arrive either as a bare array or wrapped in a list/items field.
func decodeRows(data json.RawMessage) []Row {
	if len(data) == 0 {
		return []Row{}
	}
	var rows []Row
	if err := json.Unmarshal(data, &rows); err == nil {
		if rows == nil {
			rows = []Row{}
		}
		return rows
	}
	var wrapper struct {
		List  []Row `json:"list"`
		Items []Row `json:"items"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil {
		if wrapper.List != nil {
			return wrapper.List
		}
		if wrapper.Items != nil {
			return wrapper.Items
		}
	}
	return []Row{}
}

// decodeRow interprets a platform data payload as a single row, ok only when
// the row carries an identity.
func decodeRow(data json.RawMessage) (Row, bool) {
	if len(data) == 0 {
		return nil, false
	}
	var row Row
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, false
	}
	if _, hasID := RowID(row); !hasID {
		return nil, false
	}
	return row, true
}

// replaceByID swaps the row whose identity matches updated into the slice.
// No match leaves the slice untouched.
func replaceByID(rows []Row, updated Row) []Row {
	id, ok := RowID(updated)
	if !ok {
		return rows
	}
	for i, r := range rows {
		if existing, ok := RowID(r); ok && existing == id {
			rows[i] = updated
			break
		}
	}
	return rows
}

// removeByID filters the row with the given identity out of the slice.
func removeByID(rows []Row, id string) []Row {
	out := rows[:0]
	for _, r := range rows {
		if existing, ok := RowID(r); ok && existing == id {
			continue
		}
		out = append(out, r)
	}
	return out
}

func copyRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	copy(out, rows)
	return out
}
