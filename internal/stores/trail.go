package stores

import (
	"context"

	"github.com/filmcounts/filmcounts-gateway/internal/storage"
	"github.com/filmcounts/filmcounts-gateway/internal/upstream"
)

// TrailStore caches audit-trail entries fetched through the platform's single
// /at/search endpoint (responseCode envelope). There is no CRUD here: every
// search replaces the cached entries wholesale.
type TrailStore struct {
	collectionStore
}

// TrailQuery is the search payload forwarded to /at/search. Zero fields are
// omitted so the platform applies its own defaults.
type TrailQuery struct {
	Actor    string `json:"actor,omitempty"`
	Entity   string `json:"entity,omitempty"`
	Action   string `json:"action,omitempty"`
	DateFrom string `json:"dateFrom,omitempty"`
	DateTo   string `json:"dateTo,omitempty"`
}

func newTrailStore(client *upstream.Client, backend storage.Backend, sessionKey string, token func() string) *TrailStore {
	t := &TrailStore{}
	t.store = newStore("trail-store", "trail-store", client, backend, sessionKey, token)
	return t
}

// Search queries the audit trail and replaces the cached entries.
func (t *TrailStore) Search(ctx context.Context, q TrailQuery) Result {
	res := t.do(ctx, "search", upstream.Request{
		Method: "POST", Path: "/at/search", Domain: "at",
		Convention: upstream.ConventionResponseCode, Body: q,
	})
	if res.Error != "" {
		return Result{Error: res.Error}
	}
	if !res.Success {
		return failure(res.Message)
	}
	rows := decodeRows(res.Data)
	t.setItems(ctx, rows)
	return Result{Success: true, Data: rows}
}

// Entries returns a copy of the cached trail entries.
func (t *TrailStore) Entries() []Row { return t.Rows() }
