package stores

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/filmcounts/filmcounts-gateway/internal/config"
	"github.com/filmcounts/filmcounts-gateway/internal/session"
	"github.com/filmcounts/filmcounts-gateway/internal/storage/memory"
	"github.com/filmcounts/filmcounts-gateway/internal/upstream"
)

func newTestManager(t *testing.T, handler http.HandlerFunc, backend *memory.MemoryBackend) *Manager {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.Sessions.TTL = time.Hour
	cfg.Sessions.MaxSessions = 100
	return NewManager(cfg, upstream.NewClientWithHTTP(srv.URL, srv.Client()), backend, testCipher(t))
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(`{"responseCode":"00"}`))
}

func signedTokenWithExp(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "exp": exp.Unix()})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	return s
}

func TestForToken_ReusesSessionForSameToken(t *testing.T) {
	m := newTestManager(t, okHandler, memory.New())

	r1, err := m.ForToken(context.Background(), "tok-a")
	if err != nil {
		t.Fatalf("ForToken: %v", err)
	}
	r2, err := m.ForToken(context.Background(), "tok-a")
	if err != nil {
		t.Fatalf("ForToken second call: %v", err)
	}
	if r1 != r2 {
		t.Error("same token produced two registries")
	}
	if m.ActiveCount() != 1 {
		t.Errorf("ActiveCount = %d, want 1", m.ActiveCount())
	}
}

func TestForToken_IsolatesSessions(t *testing.T) {
	m := newTestManager(t, okHandler, memory.New())

	r1, _ := m.ForToken(context.Background(), "tok-a")
	r2, _ := m.ForToken(context.Background(), "tok-b")

	if r1 == r2 {
		t.Fatal("distinct tokens shared a registry")
	}
	r1.Notifications.Add("only in a", "", "info")
	if got := len(r2.Notifications.List()); got != 0 {
		t.Errorf("session b sees %d notifications from session a", got)
	}
}

func TestForToken_SeedsTokenIntoFreshSession(t *testing.T) {
	m := newTestManager(t, okHandler, memory.New())

	reg, _ := m.ForToken(context.Background(), "tok-a")
	if reg.Auth.AccessToken() != "tok-a" {
		t.Errorf("AccessToken = %q, want tok-a", reg.Auth.AccessToken())
	}
	if !reg.Auth.IsAuthenticated() {
		t.Error("seeded session not authenticated")
	}
}

func TestForToken_SessionLimit(t *testing.T) {
	m := newTestManager(t, okHandler, memory.New())
	m.maxSessions = 1

	if _, err := m.ForToken(context.Background(), "tok-a"); err != nil {
		t.Fatalf("first session rejected: %v", err)
	}
	if _, err := m.ForToken(context.Background(), "tok-b"); err != ErrSessionLimit {
		t.Errorf("err = %v, want ErrSessionLimit", err)
	}
	// Existing sessions keep working at the limit.
	if _, err := m.ForToken(context.Background(), "tok-a"); err != nil {
		t.Errorf("existing session rejected at limit: %v", err)
	}
}

func TestLogin_AdmitsSessionUnderNewToken(t *testing.T) {
	backend := memory.New()
	m := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(loginOKBody))
	}, backend)

	res, reg := m.Login(context.Background(), "pm@studio.example", "secret")
	if !res.Success || reg == nil {
		t.Fatalf("Login = %+v, reg = %v", res, reg)
	}
	if reg.SessionKey() != session.KeyForToken("at-123") {
		t.Errorf("SessionKey = %q", reg.SessionKey())
	}

	// The same access token now resolves to the admitted registry.
	again, err := m.ForToken(context.Background(), "at-123")
	if err != nil {
		t.Fatalf("ForToken after login: %v", err)
	}
	if again != reg {
		t.Error("ForToken created a second registry for the login token")
	}
}

func TestManagerLogout_EvictsAndPurges(t *testing.T) {
	backend := memory.New()
	m := newTestManager(t, okHandler, backend)

	reg, _ := m.ForToken(context.Background(), "tok-a")
	reg.Company.setItems(context.Background(), []Row{{"id": "c1"}})

	res := m.Logout(context.Background(), "tok-a")
	if !res.Success {
		t.Fatalf("Logout = %+v", res)
	}
	if m.ActiveCount() != 0 {
		t.Errorf("ActiveCount = %d after logout", m.ActiveCount())
	}
	keys, _ := backend.Keys(context.Background(), session.KeyForToken("tok-a")+"/")
	if len(keys) != 0 {
		t.Errorf("persisted keys survived logout: %v", keys)
	}
}

func TestSweep_EvictsIdleSessions(t *testing.T) {
	backend := memory.New()
	m := newTestManager(t, okHandler, backend)
	m.ttl = 10 * time.Minute

	reg, _ := m.ForToken(context.Background(), "tok-idle")
	reg.Company.setItems(context.Background(), []Row{{"id": "c1"}})
	m.ForToken(context.Background(), "tok-live")

	// Backdate the idle session past the TTL.
	m.mu.Lock()
	m.sessions[session.KeyForToken("tok-idle")].lastSeen = time.Now().Add(-time.Hour)
	m.mu.Unlock()

	if swept := m.Sweep(context.Background()); swept != 1 {
		t.Errorf("Sweep = %d, want 1", swept)
	}
	if m.ActiveCount() != 1 {
		t.Errorf("ActiveCount = %d, want 1", m.ActiveCount())
	}
	keys, _ := backend.Keys(context.Background(), session.KeyForToken("tok-idle")+"/")
	if len(keys) != 0 {
		t.Errorf("swept session left persisted keys: %v", keys)
	}
}

func TestSweep_EvictsExpiredTokens(t *testing.T) {
	m := newTestManager(t, okHandler, memory.New())

	expired := signedTokenWithExp(t, time.Now().Add(-time.Minute))
	m.ForToken(context.Background(), expired)

	if swept := m.Sweep(context.Background()); swept != 1 {
		t.Errorf("Sweep = %d, want 1", swept)
	}
}
