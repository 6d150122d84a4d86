package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"ridersclub/backend/internal/metrics"
)

// Metrics records request counts and latency by route pattern, so IDs in
// paths do not blow up label cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.IncInFlight()
		defer metrics.DecInFlight()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTP(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
