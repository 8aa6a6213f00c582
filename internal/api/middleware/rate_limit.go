package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/airfork/uts-dpm-sub000/pkg/redis"
	"github.com/airfork/uts-dpm-sub000/pkg/response"
)

// RateLimit caps requests per client IP over a fixed window. Degrades open
// when the counter store is unreachable.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := "rate:" + c.ClientIP()
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			logger.Warn("rate limit check failed", zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			response.Error(c, 429, 42901, "too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
