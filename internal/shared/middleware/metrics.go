package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"confession-backend/internal/observability/metrics"
)

// Metrics ghi prometheus counters theo route template (không theo raw path)
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.HTTPRequestsTotal.
			WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
			Inc()
		metrics.HTTPRequestDurationSeconds.
			WithLabelValues(c.Request.Method, path).
			Observe(time.Since(start).Seconds())
	}
}
