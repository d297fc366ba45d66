package stores

import (
	"context"
	"net/url"

	"github.com/filmcounts/filmcounts-gateway/internal/storage"
	"github.com/filmcounts/filmcounts-gateway/internal/upstream"
)

// SupplierStore caches suppliers under /content/supplier. This namespace is
// mid-migration on the platform side: list, create and update answer with the
// responseCode envelope while delete still answers with the HTTP-status one.
// The mix is real observed behavior, not an inconsistency to clean up here.
type SupplierStore struct {
	collectionStore
}

func newSupplierStore(client *upstream.Client, backend storage.Backend, sessionKey string, token func() string) *SupplierStore {
	s := &SupplierStore{}
	s.store = newStore("supplier-store", "supplier-store", client, backend, sessionKey, token)
	return s
}

func (s *SupplierStore) List(ctx context.Context, query url.Values) Result {
	return s.list(ctx, "list", "/content/supplier/list", upstream.ConventionResponseCode, "content", query)
}

func (s *SupplierStore) Create(ctx context.Context, body any) Result {
	return s.create(ctx, "create", "/content/supplier/create", upstream.ConventionResponseCode, "content", body)
}

func (s *SupplierStore) Update(ctx context.Context, body any) Result {
	return s.update(ctx, "update", "/content/supplier/update", upstream.ConventionResponseCode, "content", body)
}

func (s *SupplierStore) Delete(ctx context.Context, id string) Result {
	return s.remove(ctx, "delete", "/content/supplier/delete", upstream.ConventionHTTPStatus, "content", id)
}
