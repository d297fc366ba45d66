package stores

import (
	"context"
	"net/url"

	"github.com/filmcounts/filmcounts-gateway/internal/storage"
	"github.com/filmcounts/filmcounts-gateway/internal/upstream"
)

// ConfigStore caches application configuration entries under /configs
// (HTTP-status envelope). Entries are key/value rows the dashboard's settings
// screens edit.
type ConfigStore struct {
	collectionStore
}

func newConfigStore(client *upstream.Client, backend storage.Backend, sessionKey string, token func() string) *ConfigStore {
	c := &ConfigStore{}
	c.store = newStore("config-store", "config-store", client, backend, sessionKey, token)
	return c
}

func (c *ConfigStore) List(ctx context.Context, query url.Values) Result {
	return c.list(ctx, "list", "/configs/list", upstream.ConventionHTTPStatus, "configs", query)
}

func (c *ConfigStore) Update(ctx context.Context, body any) Result {
	return c.update(ctx, "update", "/configs/update", upstream.ConventionHTTPStatus, "configs", body)
}
