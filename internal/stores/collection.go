package stores

import (
	"context"
	"net/url"

	"github.com/filmcounts/filmcounts-gateway/internal/upstream"
)

// collectionState is the persisted shape of a single-collection store.
type collectionState struct {
	Items []Row `json:"items"`
}

// collectionStore is the shared core of stores that cache exactly one
// collection of platform rows.
type collectionStore struct {
	store
	items []Row
}

// Rows returns a copy of the cached collection.
func (c *collectionStore) Rows() []Row {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyRows(c.items)
}

// Hydrate restores the cached collection from the persistence backend.
func (c *collectionStore) Hydrate(ctx context.Context) {
	var state collectionState
	if !c.restore(ctx, &state) {
		return
	}
	c.mu.Lock()
	c.items = state.Items
	c.mu.Unlock()
}

// Reset drops the cached collection and its persisted copy.
func (c *collectionStore) Reset(ctx context.Context) {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
	c.clearPersisted(ctx)
}

func (c *collectionStore) setItems(ctx context.Context, items []Row) {
	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	c.persist(ctx, collectionState{Items: items})
}

// list fetches the collection and replaces the cache with the response.
func (c *collectionStore) list(ctx context.Context, action, path string, convention upstream.Convention, domain string, query url.Values) Result {
	res := c.do(ctx, action, upstream.Request{
		Method: "GET", Path: path, Domain: domain, Convention: convention, Query: query,
	})
	if res.Error != "" {
		return Result{Error: res.Error}
	}
	if !res.Success {
		return failure(res.Message)
	}
	rows := decodeRows(res.Data)
	c.setItems(ctx, rows)
	return Result{Success: true, Data: rows}
}

// create posts a new entity and appends the created row from the response.
// Responses that return no identifiable row leave the cache unchanged; the
// next list refreshes it.
func (c *collectionStore) create(ctx context.Context, action, path string, convention upstream.Convention, domain string, body any) Result {
	res := c.do(ctx, action, upstream.Request{
		Method: "POST", Path: path, Domain: domain, Convention: convention, Body: body,
	})
	if res.Error != "" {
		return Result{Error: res.Error}
	}
	if !res.Success {
		return failure(res.Message)
	}
	if row, ok := decodeRow(res.Data); ok {
		c.mu.Lock()
		items := append(copyRows(c.items), row)
		c.mu.Unlock()
		c.setItems(ctx, items)
	}
	return Result{Success: true, Data: res.Data, Message: res.Message}
}

// update posts an entity change and replaces the matching cached row with the
// row the platform returns.
func (c *collectionStore) update(ctx context.Context, action, path string, convention upstream.Convention, domain string, body any) Result {
	res := c.do(ctx, action, upstream.Request{
		Method: "PUT", Path: path, Domain: domain, Convention: convention, Body: body,
	})
	if res.Error != "" {
		return Result{Error: res.Error}
	}
	if !res.Success {
		return failure(res.Message)
	}
	if row, ok := decodeRow(res.Data); ok {
		c.mu.Lock()
		items := replaceByID(copyRows(c.items), row)
		c.mu.Unlock()
		c.setItems(ctx, items)
	}
	return Result{Success: true, Data: res.Data, Message: res.Message}
}

// remove deletes an entity on the platform and filters it out of the cache.
func (c *collectionStore) remove(ctx context.Context, action, path string, convention upstream.Convention, domain, id string) Result {
	res := c.do(ctx, action, upstream.Request{
		Method: "DELETE", Path: path, Domain: domain, Convention: convention,
		Query: url.Values{"id": []string{id}},
	})
	if res.Error != "" {
		return Result{Error: res.Error}
	}
	if !res.Success {
		return failure(res.Message)
	}
	c.mu.Lock()
	items := removeByID(copyRows(c.items), id)
	c.mu.Unlock()
	c.setItems(ctx, items)
	return Result{Success: true, Message: res.Message}
}
