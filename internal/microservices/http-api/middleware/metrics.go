package middleware

import (
	"strconv"
	"time"

	"focushub/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request latency by route template, so /api/posts/1 and
// /api/posts/2 share a series.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.RequestsInFlight.Inc()
		defer metrics.RequestsInFlight.Dec()

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestDuration.
			WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
