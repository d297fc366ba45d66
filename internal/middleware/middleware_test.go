package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/filmcounts/filmcounts-gateway/internal/config"
	"github.com/filmcounts/filmcounts-gateway/internal/crypto"
	"github.com/filmcounts/filmcounts-gateway/internal/storage/memory"
	"github.com/filmcounts/filmcounts-gateway/internal/stores"
	"github.com/filmcounts/filmcounts-gateway/internal/upstream"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ---------------------------------------------------------------------------
// RequestID
// ---------------------------------------------------------------------------

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	var seen string
	router.GET("/", func(c *gin.Context) {
		seen = c.GetString(RequestIDKey)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if seen == "" {
		t.Error("no request ID in context")
	}
	if got := w.Header().Get(RequestIDHeader); got != seen {
		t.Errorf("response header = %q, context = %q", got, seen)
	}
}

func TestRequestID_ReusesInbound(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "lb-abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got != "lb-abc-123" {
		t.Errorf("request ID = %q, want inbound value reused", got)
	}
}

// ---------------------------------------------------------------------------
// SecurityHeaders
// ---------------------------------------------------------------------------

func TestSecurityHeaders_Set(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeaders())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	for header, want := range map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
		"Referrer-Policy":        "no-referrer",
	} {
		if got := w.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
}

// ---------------------------------------------------------------------------
// RateLimit
// ---------------------------------------------------------------------------

func TestRateLimit_ExhaustsBurst(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitingConfig{RequestsPerMinute: 60, Burst: 3})
	defer rl.Stop()

	router := gin.New()
	router.Use(RateLimit(rl))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	statuses := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer tok-rl")
		router.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}

	for i := 0; i < 3; i++ {
		if statuses[i] != http.StatusOK {
			t.Errorf("request %d status = %d, want 200", i, statuses[i])
		}
	}
	if statuses[3] != http.StatusTooManyRequests {
		t.Errorf("request 4 status = %d, want 429", statuses[3])
	}
}

func TestRateLimit_KeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitingConfig{RequestsPerMinute: 60, Burst: 1})
	defer rl.Stop()

	if !rl.Allow("token:a") {
		t.Fatal("first request for a denied")
	}
	if rl.Allow("token:a") {
		t.Error("burst 1 allowed a second request")
	}
	if !rl.Allow("token:b") {
		t.Error("unrelated key b was starved by a")
	}
}

// ---------------------------------------------------------------------------
// Session
// ---------------------------------------------------------------------------

func newTestManager(t *testing.T) *stores.Manager {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"responseCode":"00"}`))
	}))
	t.Cleanup(srv.Close)

	key := make([]byte, 32)
	copy(key, "0123456789abcdef0123456789abcdef")
	cipher, err := crypto.NewTokenCipher(key)
	if err != nil {
		t.Fatalf("NewTokenCipher: %v", err)
	}

	cfg := &config.Config{}
	cfg.Sessions.TTL = time.Hour
	cfg.Sessions.MaxSessions = 10
	return stores.NewManager(cfg, upstream.NewClientWithHTTP(srv.URL, srv.Client()), memory.New(), cipher)
}

func TestSession_RejectsMissingToken(t *testing.T) {
	router := gin.New()
	router.Use(Session(newTestManager(t)))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if body := w.Body.String(); !strings.Contains(body, "No access token available") {
		t.Errorf("body = %s", body)
	}
}

func TestSession_AttachesRegistry(t *testing.T) {
	router := gin.New()
	router.Use(Session(newTestManager(t)))
	var reg *stores.Registry
	router.GET("/", func(c *gin.Context) {
		reg = Registry(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer tok-x")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if reg == nil {
		t.Fatal("no registry in context")
	}
	if reg.Auth.AccessToken() != "tok-x" {
		t.Errorf("AccessToken = %q", reg.Auth.AccessToken())
	}
}

func TestRequireAdmin_BlocksNonAdmin(t *testing.T) {
	router := gin.New()
	router.Use(Session(newTestManager(t)), RequireAdmin())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer tok-plain")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}
