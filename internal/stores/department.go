package stores

import (
	"context"
	"net/url"

	"github.com/filmcounts/filmcounts-gateway/internal/storage"
	"github.com/filmcounts/filmcounts-gateway/internal/upstream"
)

// DepartmentStore caches production departments under /content/department,
// a responseCode-envelope namespace.
type DepartmentStore struct {
	collectionStore
}

func newDepartmentStore(client *upstream.Client, backend storage.Backend, sessionKey string, token func() string) *DepartmentStore {
	d := &DepartmentStore{}
	d.store = newStore("department-store", "department-store", client, backend, sessionKey, token)
	return d
}

func (d *DepartmentStore) List(ctx context.Context, query url.Values) Result {
	return d.list(ctx, "list", "/content/department/list", upstream.ConventionResponseCode, "content", query)
}

func (d *DepartmentStore) Create(ctx context.Context, body any) Result {
	return d.create(ctx, "create", "/content/department/create", upstream.ConventionResponseCode, "content", body)
}

func (d *DepartmentStore) Update(ctx context.Context, body any) Result {
	return d.update(ctx, "update", "/content/department/update", upstream.ConventionResponseCode, "content", body)
}

func (d *DepartmentStore) Delete(ctx context.Context, id string) Result {
	return d.remove(ctx, "delete", "/content/department/delete", upstream.ConventionResponseCode, "content", id)
}
