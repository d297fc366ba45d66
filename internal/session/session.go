// Package session defines the authenticated session entity shared by the auth
// store, the navigation shell, and the session middleware: the logged-in user,
// their organization memberships, and the upstream token pair. Token issuance
// and validation belong to the remote platform; this package only carries the
// tokens and inspects their expiry claim for sweeping purposes.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Membership pairs an organization with the roles the user holds in it.
type Membership struct {
	Organization string   `json:"organization"`
	Roles        []string `json:"roles"`
}

// User is the platform user profile carried inside a session.
type User struct {
	ID            string       `json:"id"`
	Email         string       `json:"email"`
	Name          string       `json:"name"`
	Organizations []Membership `json:"organizations"`
}

// Tokens is the upstream token pair. Values are plaintext in memory; the auth
// store encrypts them before they reach the persistence backend.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Session is the persisted auth-store state.
type Session struct {
	User   *User  `json:"user"`
	IsAuth bool   `json:"isAuth"`
	Tokens Tokens `json:"tokens"`
}

// UserOrganizations returns the user's organization memberships, never nil.
func (s *Session) UserOrganizations() []Membership {
	if s == nil || s.User == nil || s.User.Organizations == nil {
		return []Membership{}
	}
	return s.User.Organizations
}

// IsAdmin reports whether any membership carries the ADMIN or ADMINISTRATOR
// role. The match is deliberately case-sensitive: the platform emits role
// names in upper case and other consumers of the dashboard rely on lowercase
// variants NOT granting admin, so this must not case-fold.
func (s *Session) IsAdmin() bool {
	for _, m := range s.UserOrganizations() {
		for _, role := range m.Roles {
			if role == "ADMIN" || role == "ADMINISTRATOR" {
				return true
			}
		}
	}
	return false
}

// KeyForToken derives the stable session identifier for a bearer token.
// The raw token must never be used as a storage key (it would land in
// filenames, Redis dumps, and Postgres rows in the clear), so the key is a
// truncated SHA-256 of the token.
func KeyForToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:16])
}

// TokenExpiry extracts the exp claim from a JWT access token without
// verifying its signature — verification is the platform's job; the gateway
// only needs the timestamp to know when a session is certainly dead.
// ok is false when the token is not a parseable JWT or carries no exp claim,
// in which case callers should fall back to the idle TTL.
func TokenExpiry(token string) (expiry time.Time, ok bool) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
