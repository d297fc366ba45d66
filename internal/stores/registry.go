package stores

import (
	"context"

	"github.com/filmcounts/filmcounts-gateway/internal/crypto"
	"github.com/filmcounts/filmcounts-gateway/internal/storage"
	"github.com/filmcounts/filmcounts-gateway/internal/upstream"
)

// Registry is the complete store set of one session. Every store is wired to
// the same upstream client and persistence backend and draws its access token
// from the Auth store; nothing here is a singleton, so two sessions never
// share state.
type Registry struct {
	sessionKey string

	Auth          *AuthStore
	Budget        *BudgetStore
	Company       *CompanyStore
	Organization  *OrganizationStore
	Supplier      *SupplierStore
	Department    *DepartmentStore
	Trail         *TrailStore
	Config        *ConfigStore
	Users         *UserManagementStore
	Notifications *NotificationStore
}

// NewRegistry builds the store set for one session. sessionKey may be empty
// for a pre-login registry; Rekey installs the real key after login succeeds.
func NewRegistry(client *upstream.Client, backend storage.Backend, cipher *crypto.TokenCipher, sessionKey string) *Registry {
	r := &Registry{sessionKey: sessionKey}
	r.Auth = newAuthStore(client, backend, cipher, sessionKey)
	token := r.Auth.AccessToken
	r.Budget = newBudgetStore(client, backend, sessionKey, token)
	r.Company = newCompanyStore(client, backend, sessionKey, token)
	r.Organization = newOrganizationStore(client, backend, sessionKey, token)
	r.Supplier = newSupplierStore(client, backend, sessionKey, token)
	r.Department = newDepartmentStore(client, backend, sessionKey, token)
	r.Trail = newTrailStore(client, backend, sessionKey, token)
	r.Config = newConfigStore(client, backend, sessionKey, token)
	r.Users = newUserManagementStore(client, backend, sessionKey, token)
	r.Notifications = newNotificationStore()
	return r
}

// SessionKey returns the storage namespace of this session.
func (r *Registry) SessionKey() string { return r.sessionKey }

func (r *Registry) bases() []*store {
	return []*store{
		&r.Auth.store, &r.Budget.store, &r.Company.store, &r.Organization.store,
		&r.Supplier.store, &r.Department.store, &r.Trail.store, &r.Config.store,
		&r.Users.store,
	}
}

// Rekey moves the registry onto a new storage namespace. Called once after a
// successful login, when the session key becomes known.
func (r *Registry) Rekey(sessionKey string) {
	r.sessionKey = sessionKey
	for _, s := range r.bases() {
		s.mu.Lock()
		s.sessionKey = sessionKey
		s.mu.Unlock()
	}
}

// Hydrate restores every persisted store from the backend.
func (r *Registry) Hydrate(ctx context.Context) {
	r.Auth.Hydrate(ctx)
	r.Budget.Hydrate(ctx)
	r.Company.Hydrate(ctx)
	r.Organization.Hydrate(ctx)
	r.Supplier.Hydrate(ctx)
	r.Department.Hydrate(ctx)
	r.Trail.Hydrate(ctx)
	r.Config.Hydrate(ctx)
	r.Users.Hydrate(ctx)
}

// Loading reports whether any store in the set has an action in flight.
func (r *Registry) Loading() bool {
	for _, s := range r.bases() {
		if s.Loading() {
			return true
		}
	}
	return false
}

// Logout tears the whole session down: platform logout, every store cleared,
// every persisted key removed. The teardown is unconditional; see
// AuthStore.Logout for why the upstream outcome does not gate it.
func (r *Registry) Logout(ctx context.Context) Result {
	res := r.Auth.Logout(ctx)

	r.Budget.Reset(ctx)
	r.Company.Reset(ctx)
	r.Organization.Reset(ctx)
	r.Supplier.Reset(ctx)
	r.Department.Reset(ctx)
	r.Trail.Reset(ctx)
	r.Config.Reset(ctx)
	r.Users.Reset(ctx)
	r.Notifications.Clear()

	if backend := r.Auth.backend; backend != nil && r.sessionKey != "" {
		_ = storage.DeletePrefix(ctx, backend, r.sessionKey+"/")
	}
	return res
}
