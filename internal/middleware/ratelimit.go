package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inkwellhq/inkwell/pkg/errors"
	"github.com/inkwellhq/inkwell/pkg/metrics"
	"github.com/inkwellhq/inkwell/pkg/response"
)

// RateLimit limits requests per (clientIP, route) within a fixed window using
// the supplied store. A nil store or non-positive limit disables the limiter.
func RateLimit(store RateStore, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil || maxRequests <= 0 || window <= 0 {
			c.Next()
			return
		}

		key := c.ClientIP() + "|" + c.FullPath()
		count, ttl, err := store.Increment(c.Request.Context(), key, window)
		if err != nil {
			// Fail open: losing the limiter must not take the API down.
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(0, maxRequests-count)))
		c.Header("X-RateLimit-Reset", strconv.Itoa(int(ttl.Seconds())))

		if count > maxRequests {
			metrics.RateLimitRejections.Inc()
			c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())))
			response.Error(c, errors.ErrRateLimit)
			c.Abort()
			return
		}

		c.Next()
	}
}
