package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// WriteRateLimit limits task mutations per user (not per IP) using Redis.
// Uses the user id from context, so JWT middleware must run before this.
// A recurring-series create still counts as one request even though it
// writes hundreds of rows.
func WriteRateLimit(maxWrites int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			// Redis not configured, fail-open
			c.Next()
			return
		}

		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		userID, ok := userIDVal.(int64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid user"})
			return
		}

		key := "write_rl:" + strconv.FormatInt(userID, 10) + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
		val, err := fixedWindowIncr(context.Background(), key, window)
		if err != nil {
			// On Redis error, fail-open
			c.Header("X-WriteRateLimit-Error", "redis-error")
			c.Next()
			return
		}

		c.Header("X-WriteRateLimit-Limit", strconv.Itoa(maxWrites))
		c.Header("X-WriteRateLimit-Remaining", strconv.FormatInt(max(0, int64(maxWrites)-val), 10))

		if val > int64(maxWrites) {
			RLBlocked.WithLabelValues("write:" + c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "write rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues("write:" + c.FullPath()).Inc()
		c.Next()
	}
}
