package stores

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/filmcounts/filmcounts-gateway/internal/storage/memory"
	"github.com/filmcounts/filmcounts-gateway/internal/upstream"
)

const loginOKBody = `{"responseCode":"00","data":{
	"access_token":"at-123","refresh_token":"rt-456",
	"user":{"id":"u1","email":"pm@studio.example","name":"Pat",
		"organizations":[{"organization":"org-a","roles":["ADMIN"]}]}}}`

func TestLogin_InstallsSessionState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/um/login" {
			t.Errorf("login hit %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(loginOKBody))
	}))
	defer srv.Close()

	reg := NewRegistry(upstream.NewClientWithHTTP(srv.URL, srv.Client()), memory.New(), testCipher(t), "sess1")
	res := reg.Auth.Login(context.Background(), "pm@studio.example", "secret")
	if !res.Success {
		t.Fatalf("Login failed: %+v", res)
	}

	state := reg.Auth.Current()
	if !state.IsAuth {
		t.Error("IsAuth = false after login")
	}
	if state.Tokens.AccessToken != "at-123" || state.Tokens.RefreshToken != "rt-456" {
		t.Errorf("Tokens = %+v", state.Tokens)
	}
	if state.User == nil || state.User.ID != "u1" {
		t.Errorf("User = %+v", state.User)
	}
	if !reg.Auth.IsAdmin() {
		t.Error("IsAdmin = false for ADMIN membership")
	}
}

func TestLogin_RejectedCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"responseCode":"41","message":"invalid credentials"}`))
	}))
	defer srv.Close()

	reg := NewRegistry(upstream.NewClientWithHTTP(srv.URL, srv.Client()), memory.New(), testCipher(t), "sess1")
	res := reg.Auth.Login(context.Background(), "pm@studio.example", "wrong")
	if res.Success {
		t.Fatal("Login succeeded with rejected credentials")
	}
	if res.Message != "invalid credentials" {
		t.Errorf("Message = %q", res.Message)
	}
	if reg.Auth.IsAuthenticated() {
		t.Error("IsAuthenticated = true after failed login")
	}
}

func TestPersistedTokens_AreEncrypted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(loginOKBody))
	}))
	defer srv.Close()

	backend := memory.New()
	reg := NewRegistry(upstream.NewClientWithHTTP(srv.URL, srv.Client()), backend, testCipher(t), "sess1")
	if res := reg.Auth.Login(context.Background(), "pm@studio.example", "secret"); !res.Success {
		t.Fatalf("Login failed: %+v", res)
	}

	raw, err := backend.Load(context.Background(), "sess1/auth-store")
	if err != nil {
		t.Fatalf("auth state not persisted: %v", err)
	}
	if strings.Contains(string(raw), "at-123") || strings.Contains(string(raw), "rt-456") {
		t.Error("plaintext tokens found in persisted auth state")
	}

	// Hydration through the same cipher restores the plaintext pair.
	reg2 := NewRegistry(upstream.NewClientWithHTTP(srv.URL, srv.Client()), backend, testCipher(t), "sess1")
	reg2.Hydrate(context.Background())
	if reg2.Auth.AccessToken() != "at-123" {
		t.Errorf("hydrated AccessToken = %q", reg2.Auth.AccessToken())
	}
}

func TestLogout_ClearsStateEvenWhenPlatformFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/um/login" {
			_, _ = w.Write([]byte(loginOKBody))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"responseCode":"99","message":"platform down"}`))
	}))
	defer srv.Close()

	backend := memory.New()
	reg := NewRegistry(upstream.NewClientWithHTTP(srv.URL, srv.Client()), backend, testCipher(t), "sess1")
	reg.Auth.Login(context.Background(), "pm@studio.example", "secret")

	res := reg.Logout(context.Background())
	if !res.Success {
		t.Errorf("Logout = %+v, want local success despite platform failure", res)
	}
	if reg.Auth.IsAuthenticated() || reg.Auth.AccessToken() != "" {
		t.Error("auth state survived logout")
	}

	keys, _ := backend.Keys(context.Background(), "sess1/")
	if len(keys) != 0 {
		t.Errorf("persisted keys survived logout: %v", keys)
	}
}

func TestRefreshTokens_RotatesPair(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/um/login":
			_, _ = w.Write([]byte(loginOKBody))
		case "/um/token/refresh":
			_, _ = w.Write([]byte(`{"responseCode":"00","data":{"access_token":"at-new","refresh_token":"rt-new"}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	reg := NewRegistry(upstream.NewClientWithHTTP(srv.URL, srv.Client()), memory.New(), testCipher(t), "sess1")
	reg.Auth.Login(context.Background(), "pm@studio.example", "secret")

	if res := reg.Auth.RefreshTokens(context.Background()); !res.Success {
		t.Fatalf("RefreshTokens failed: %+v", res)
	}
	state := reg.Auth.Current()
	if state.Tokens.AccessToken != "at-new" || state.Tokens.RefreshToken != "rt-new" {
		t.Errorf("Tokens after refresh = %+v", state.Tokens)
	}
}

func TestRegister_DoesNotAuthenticate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"responseCode":"00","message":"check your email"}`))
	}))
	defer srv.Close()

	reg := NewRegistry(upstream.NewClientWithHTTP(srv.URL, srv.Client()), memory.New(), testCipher(t), "sess1")
	res := reg.Auth.Register(context.Background(), map[string]string{"email": "new@studio.example"})
	if !res.Success {
		t.Fatalf("Register failed: %+v", res)
	}
	if reg.Auth.IsAuthenticated() {
		t.Error("Register authenticated the session")
	}
}
