package stores

import (
	"context"
	"net/url"

	"github.com/filmcounts/filmcounts-gateway/internal/storage"
	"github.com/filmcounts/filmcounts-gateway/internal/upstream"
)

// OrganizationStore caches the user's organizations under /org. The namespace
// answers with the plain HTTP-status envelope.
type OrganizationStore struct {
	collectionStore
}

func newOrganizationStore(client *upstream.Client, backend storage.Backend, sessionKey string, token func() string) *OrganizationStore {
	o := &OrganizationStore{}
	o.store = newStore("org-store", "org-store", client, backend, sessionKey, token)
	return o
}

func (o *OrganizationStore) List(ctx context.Context, query url.Values) Result {
	return o.list(ctx, "list", "/org/list", upstream.ConventionHTTPStatus, "org", query)
}

func (o *OrganizationStore) Create(ctx context.Context, body any) Result {
	return o.create(ctx, "create", "/org/create", upstream.ConventionHTTPStatus, "org", body)
}

func (o *OrganizationStore) Update(ctx context.Context, body any) Result {
	return o.update(ctx, "update", "/org/update", upstream.ConventionHTTPStatus, "org", body)
}

func (o *OrganizationStore) Delete(ctx context.Context, id string) Result {
	return o.remove(ctx, "delete", "/org/delete", upstream.ConventionHTTPStatus, "org", id)
}

// Members fetches the member list of one organization. The result is not
// cached; membership is small and changes out from under the session often.
func (o *OrganizationStore) Members(ctx context.Context, orgID string) Result {
	res := o.do(ctx, "members", upstream.Request{
		Method: "GET", Path: "/org/members", Domain: "org",
		Convention: upstream.ConventionHTTPStatus,
		Query:      url.Values{"org_id": []string{orgID}},
	})
	if res.Error != "" {
		return Result{Error: res.Error}
	}
	if !res.Success {
		return failure(res.Message)
	}
	return Result{Success: true, Data: decodeRows(res.Data)}
}
