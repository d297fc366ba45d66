package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/filmcounts/filmcounts-gateway/internal/telemetry"
)

// Metrics records http_requests_total and http_request_duration_seconds for
// every request. The path label uses the matched route template from
// c.FullPath() (e.g. /api/v1/companies/:id), never the raw URL; requests that
// match no route are labeled "<no-route>" to keep cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "<no-route>"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		telemetry.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		telemetry.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
