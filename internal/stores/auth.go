package stores

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/filmcounts/filmcounts-gateway/internal/crypto"
	"github.com/filmcounts/filmcounts-gateway/internal/session"
	"github.com/filmcounts/filmcounts-gateway/internal/storage"
	"github.com/filmcounts/filmcounts-gateway/internal/upstream"
)

// AuthStore holds the session's authentication state: the platform user, the
// auth flag, and the upstream token pair. It is the token source for every
// other store. Tokens are encrypted before the state reaches the persistence
// backend and decrypted on hydration.
type AuthStore struct {
	store
	cipher *crypto.TokenCipher

	state session.Session
}

// authState is the persisted shape; token fields hold sealed ciphertext.
type authState struct {
	User   *session.User  `json:"user"`
	IsAuth bool           `json:"isAuth"`
	Tokens session.Tokens `json:"tokens"`
}

func newAuthStore(client *upstream.Client, backend storage.Backend, cipher *crypto.TokenCipher, sessionKey string) *AuthStore {
	a := &AuthStore{cipher: cipher}
	a.store = newStore("auth-store", "auth-store", client, backend, sessionKey, nil)
	a.token = a.AccessToken
	return a
}

// Current returns a copy of the session state.
func (a *AuthStore) Current() session.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// AccessToken returns the current upstream access token, empty when logged out.
func (a *AuthStore) AccessToken() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.Tokens.AccessToken
}

// IsAuthenticated reports whether the session holds a logged-in user.
func (a *AuthStore) IsAuthenticated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.IsAuth
}

// IsAdmin reports whether the session user holds an admin role anywhere.
func (a *AuthStore) IsAdmin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.IsAdmin()
}

// UserOrganizations returns the session user's organization memberships.
func (a *AuthStore) UserOrganizations() []session.Membership {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.UserOrganizations()
}

// SeedToken installs a bearer token into an otherwise empty session. Used when
// a request arrives for a session the gateway has no persisted state for: the
// token is taken at face value and the platform remains the authority on
// whether it is still good.
func (a *AuthStore) SeedToken(ctx context.Context, token string) {
	a.mu.Lock()
	if a.state.Tokens.AccessToken == "" {
		a.state.Tokens.AccessToken = token
		a.state.IsAuth = true
	}
	a.mu.Unlock()
	a.persistState(ctx)
}

// Login authenticates against the platform and installs the returned user and
// token pair as the session state.
func (a *AuthStore) Login(ctx context.Context, email, password string) Result {
	res := a.doAnonymous(ctx, "login", upstream.Request{
		Method: "POST", Path: "/um/login", Domain: "um",
		Convention: upstream.ConventionResponseCode,
		Body:       map[string]string{"email": email, "password": password},
	})
	if res.Error != "" {
		return Result{Error: res.Error}
	}
	if !res.Success {
		return failure(res.Message)
	}

	accessToken, refreshToken := upstream.Tokens(res.Data)
	if accessToken == "" {
		return failure("login response carried no access token")
	}

	a.mu.Lock()
	a.state = session.Session{
		User:   decodeUser(res.Data),
		IsAuth: true,
		Tokens: session.Tokens{AccessToken: accessToken, RefreshToken: refreshToken},
	}
	state := a.state
	a.mu.Unlock()
	a.persistState(ctx)

	return Result{Success: true, Data: state, Message: res.Message}
}

// Register creates a platform account. It does not log the user in; the
// dashboard sends them through login (or email verification) afterwards.
func (a *AuthStore) Register(ctx context.Context, body any) Result {
	res := a.doAnonymous(ctx, "register", upstream.Request{
		Method: "POST", Path: "/um/register", Domain: "um",
		Convention: upstream.ConventionResponseCode, Body: body,
	})
	if res.Error != "" {
		return Result{Error: res.Error}
	}
	if !res.Success {
		return failure(res.Message)
	}
	return Result{Success: true, Data: res.Data, Message: res.Message}
}

// ResetPassword requests a password reset email for the given address.
func (a *AuthStore) ResetPassword(ctx context.Context, email string) Result {
	res := a.doAnonymous(ctx, "reset_password", upstream.Request{
		Method: "POST", Path: "/um/password/reset", Domain: "um",
		Convention: upstream.ConventionResponseCode,
		Body:       map[string]string{"email": email},
	})
	if res.Error != "" {
		return Result{Error: res.Error}
	}
	if !res.Success {
		return failure(res.Message)
	}
	return Result{Success: true, Message: res.Message}
}

// VerifyEmail confirms an email verification token.
func (a *AuthStore) VerifyEmail(ctx context.Context, token string) Result {
	res := a.doAnonymous(ctx, "verify_email", upstream.Request{
		Method: "POST", Path: "/um/verify-email", Domain: "um",
		Convention: upstream.ConventionResponseCode,
		Body:       map[string]string{"token": token},
	})
	if res.Error != "" {
		return Result{Error: res.Error}
	}
	if !res.Success {
		return failure(res.Message)
	}
	return Result{Success: true, Message: res.Message}
}

// RefreshTokens exchanges the refresh token for a new token pair.
func (a *AuthStore) RefreshTokens(ctx context.Context) Result {
	a.mu.Lock()
	refresh := a.state.Tokens.RefreshToken
	a.mu.Unlock()
	if refresh == "" {
		return Result{Error: MsgNoAccessToken}
	}

	res := a.doAnonymous(ctx, "refresh_tokens", upstream.Request{
		Method: "POST", Path: "/um/token/refresh", Domain: "um",
		Convention: upstream.ConventionResponseCode,
		Body:       map[string]string{"refresh_token": refresh},
	})
	if res.Error != "" {
		return Result{Error: res.Error}
	}
	if !res.Success {
		return failure(res.Message)
	}

	accessToken, refreshToken := upstream.Tokens(res.Data)
	if accessToken == "" {
		return failure("refresh response carried no access token")
	}
	a.mu.Lock()
	a.state.Tokens.AccessToken = accessToken
	if refreshToken != "" {
		a.state.Tokens.RefreshToken = refreshToken
	}
	a.mu.Unlock()
	a.persistState(ctx)
	return Result{Success: true}
}

// Profile fetches the current user's profile and refreshes the session user.
func (a *AuthStore) Profile(ctx context.Context) Result {
	res := a.do(ctx, "profile", upstream.Request{
		Method: "GET", Path: "/um/profile", Domain: "um",
		Convention: upstream.ConventionResponseCode,
	})
	if res.Error != "" {
		return Result{Error: res.Error}
	}
	if !res.Success {
		return failure(res.Message)
	}
	if user := decodeUser(res.Data); user != nil {
		a.mu.Lock()
		a.state.User = user
		a.mu.Unlock()
		a.persistState(ctx)
	}
	return Result{Success: true, Data: res.Data}
}

// Logout notifies the platform and clears the local auth state. The local
// clear happens regardless of the upstream outcome: a dead platform must
// never pin a user into a session they asked to leave.
func (a *AuthStore) Logout(ctx context.Context) Result {
	res := a.do(ctx, "logout", upstream.Request{
		Method: "POST", Path: "/um/logout", Domain: "um",
		Convention: upstream.ConventionResponseCode,
	})

	a.mu.Lock()
	a.state = session.Session{}
	a.mu.Unlock()
	a.clearPersisted(ctx)

	if !res.Success && res.Error == "" {
		slog.Warn("platform logout rejected, local session cleared anyway", "message", res.Message)
	}
	return Result{Success: true, Message: res.Message}
}

// Hydrate restores persisted auth state, unsealing the token pair.
func (a *AuthStore) Hydrate(ctx context.Context) {
	var persisted authState
	if !a.restore(ctx, &persisted) {
		return
	}

	access, err := a.cipher.Open(persisted.Tokens.AccessToken)
	if err != nil {
		slog.Warn("discarding persisted auth state with unreadable tokens", "error", err)
		return
	}
	refresh, err := a.cipher.Open(persisted.Tokens.RefreshToken)
	if err != nil {
		slog.Warn("discarding persisted auth state with unreadable tokens", "error", err)
		return
	}

	a.mu.Lock()
	a.state = session.Session{
		User:   persisted.User,
		IsAuth: persisted.IsAuth,
		Tokens: session.Tokens{AccessToken: access, RefreshToken: refresh},
	}
	a.mu.Unlock()
}

func (a *AuthStore) persistState(ctx context.Context) {
	a.mu.Lock()
	state := a.state
	a.mu.Unlock()

	sealedAccess, err := a.cipher.Seal(state.Tokens.AccessToken)
	if err != nil {
		slog.Error("failed to seal access token, auth state not persisted", "error", err)
		return
	}
	sealedRefresh, err := a.cipher.Seal(state.Tokens.RefreshToken)
	if err != nil {
		slog.Error("failed to seal refresh token, auth state not persisted", "error", err)
		return
	}

	a.persist(ctx, authState{
		User:   state.User,
		IsAuth: state.IsAuth,
		Tokens: session.Tokens{AccessToken: sealedAccess, RefreshToken: sealedRefresh},
	})
}

// decodeUser pulls the user profile out of an auth response, whether wrapped
// in a user field or inlined as the data object.
func decodeUser(data json.RawMessage) *session.User {
	if len(data) == 0 {
		return nil
	}
	var wrapper struct {
		User *session.User   `json:"user"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil
	}
	if wrapper.User != nil {
		return wrapper.User
	}
	if len(wrapper.Data) > 0 {
		if u := decodeUser(wrapper.Data); u != nil {
			return u
		}
	}
	var user session.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil
	}
	if user.ID == "" && user.Email == "" {
		return nil
	}
	return &user
}
