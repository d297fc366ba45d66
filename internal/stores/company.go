package stores

import (
	"context"
	"net/url"

	"github.com/filmcounts/filmcounts-gateway/internal/storage"
	"github.com/filmcounts/filmcounts-gateway/internal/upstream"
)

// CompanyStore caches the production companies under /content/company.
// This namespace answers with the plain HTTP-status envelope.
type CompanyStore struct {
	collectionStore
}

func newCompanyStore(client *upstream.Client, backend storage.Backend, sessionKey string, token func() string) *CompanyStore {
	c := &CompanyStore{}
	c.store = newStore("company-store", "company-store", client, backend, sessionKey, token)
	return c
}

func (c *CompanyStore) List(ctx context.Context, query url.Values) Result {
	return c.list(ctx, "list", "/content/company/list", upstream.ConventionHTTPStatus, "content", query)
}

func (c *CompanyStore) Create(ctx context.Context, body any) Result {
	return c.create(ctx, "create", "/content/company/create", upstream.ConventionHTTPStatus, "content", body)
}

func (c *CompanyStore) Update(ctx context.Context, body any) Result {
	return c.update(ctx, "update", "/content/company/update", upstream.ConventionHTTPStatus, "content", body)
}

func (c *CompanyStore) Delete(ctx context.Context, id string) Result {
	return c.remove(ctx, "delete", "/content/company/delete", upstream.ConventionHTTPStatus, "content", id)
}
