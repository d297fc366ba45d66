// Package middleware provides the Gin middleware chain of the Filmcounts
// gateway. Registration order in internal/api/router.go matters: security
// headers and rate limiting run first, then request identification and
// metrics, then session extraction, so every handler sees an identified,
// measured, session-bound request.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request identifier on the wire.
	RequestIDHeader = "X-Request-ID"

	// RequestIDKey is the gin.Context key holding the request ID string.
	RequestIDKey = "request_id"
)

// RequestID ensures every request carries an identifier: an inbound
// X-Request-ID from a proxy or the browser is reused, otherwise a fresh UUID
// is minted. The ID lands in the gin context for log correlation and is
// echoed back on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
