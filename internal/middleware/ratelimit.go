package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/filmcounts/filmcounts-gateway/internal/config"
)

// RateLimiter is a per-client token bucket. Clients are keyed by bearer token
// when present (one budget per session) and by IP otherwise, which mostly
// means the unauthenticated login and register endpoints.
type RateLimiter struct {
	perMinute int
	burst     int

	mu      sync.Mutex
	buckets map[string]*bucket
	stop    chan struct{}
}

type bucket struct {
	tokens   float64
	lastFill time.Time
}

// NewRateLimiter creates a limiter from configuration and starts its
// housekeeping goroutine. Call Stop when tearing the server down.
func NewRateLimiter(cfg config.RateLimitingConfig) *RateLimiter {
	perMinute := cfg.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 120
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 30
	}
	rl := &RateLimiter{
		perMinute: perMinute,
		burst:     burst,
		buckets:   make(map[string]*bucket),
		stop:      make(chan struct{}),
	}
	go rl.evictIdle()
	return rl
}

// evictIdle drops buckets that have not been touched for a while so the map
// does not grow with every IP that ever hit the gateway.
func (rl *RateLimiter) evictIdle() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-10 * time.Minute)
			rl.mu.Lock()
			for key, b := range rl.buckets {
				if b.lastFill.Before(cutoff) {
					delete(rl.buckets, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.stop:
			return
		}
	}
}

// Stop ends the housekeeping goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stop)
}

// Allow consumes one token for the key, refilling by elapsed time first.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[key]
	if !ok {
		rl.buckets[key] = &bucket{tokens: float64(rl.burst) - 1, lastFill: now}
		return true
	}

	refill := now.Sub(b.lastFill).Seconds() * float64(rl.perMinute) / 60.0
	b.tokens = min(float64(rl.burst), b.tokens+refill)
	b.lastFill = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// RateLimit enforces the limiter and answers 429 with a Retry-After when the
// client's bucket is empty.
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(clientKey(c)) {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "rate limit exceeded",
			})
			return
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.perMinute))
		c.Next()
	}
}

// clientKey prefers the session's bearer token over the client IP so one
// busy office NAT cannot starve every session behind it.
func clientKey(c *gin.Context) string {
	if token := BearerToken(c); token != "" {
		return "token:" + token
	}
	return "ip:" + c.ClientIP()
}
