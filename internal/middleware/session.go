package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/filmcounts/filmcounts-gateway/internal/stores"
)

// registryKey is the gin.Context key holding the session's store registry.
const registryKey = "session_registry"

// BearerToken extracts the bearer token from the Authorization header, empty
// when absent or malformed.
func BearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// Session resolves the request's bearer token to its store registry and
// aborts with 401 when no token is presented. Routes behind this middleware
// can assume Registry(c) returns a non-nil registry.
func Session(manager *stores.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "No access token available",
			})
			return
		}

		reg, err := manager.ForToken(c.Request.Context(), token)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, stores.ErrSessionLimit) {
				status = http.StatusServiceUnavailable
			}
			c.AbortWithStatusJSON(status, gin.H{"success": false, "error": err.Error()})
			return
		}

		c.Set(registryKey, reg)
		c.Next()
	}
}

// RequireAdmin gates a route group on the session's admin role. It must run
// after Session.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		reg := Registry(c)
		if reg == nil || !reg.Auth.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "admin role required",
			})
			return
		}
		c.Next()
	}
}

// Registry returns the session's store registry, nil when the Session
// middleware did not run.
func Registry(c *gin.Context) *stores.Registry {
	v, ok := c.Get(registryKey)
	if !ok {
		return nil
	}
	reg, _ := v.(*stores.Registry)
	return reg
}
