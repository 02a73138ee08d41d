package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inkwellhq/inkwell/pkg/metrics"
)

// Metrics observes per-route request latency. Unmatched requests share a
// single label so typo-scanning traffic cannot explode the cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		metrics.APILatency.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
