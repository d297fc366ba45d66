package stores

import (
	"context"
	"net/url"

	"github.com/filmcounts/filmcounts-gateway/internal/storage"
	"github.com/filmcounts/filmcounts-gateway/internal/upstream"
)

// UserManagementStore caches the admin user roster under /um (responseCode
// envelope). Only admin sessions reach these actions; the role gate lives in
// the HTTP layer.
type UserManagementStore struct {
	collectionStore
}

func newUserManagementStore(client *upstream.Client, backend storage.Backend, sessionKey string, token func() string) *UserManagementStore {
	u := &UserManagementStore{}
	u.store = newStore("user-management-store", "user-management-store", client, backend, sessionKey, token)
	return u
}

func (u *UserManagementStore) ListUsers(ctx context.Context, query url.Values) Result {
	return u.list(ctx, "list_users", "/um/user/list", upstream.ConventionResponseCode, "um", query)
}

// InviteUser sends a platform invitation; the pending user row the platform
// returns joins the roster.
func (u *UserManagementStore) InviteUser(ctx context.Context, body any) Result {
	return u.create(ctx, "invite_user", "/um/user/invite", upstream.ConventionResponseCode, "um", body)
}

func (u *UserManagementStore) UpdateUserRole(ctx context.Context, body any) Result {
	return u.update(ctx, "update_user_role", "/um/user/role", upstream.ConventionResponseCode, "um", body)
}

func (u *UserManagementStore) DeleteUser(ctx context.Context, id string) Result {
	return u.remove(ctx, "delete_user", "/um/user/delete", upstream.ConventionResponseCode, "um", id)
}
