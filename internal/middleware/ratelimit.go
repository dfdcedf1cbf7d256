package middleware

import (
	"fmt"
	"time"

	"tontine-core/internal/handler/response"
	"tontine-core/pkg/errno"
	"tontine-core/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimit is a fixed-window per-IP limiter backed by Redis INCR+EXPIRE.
// scope separates the counters of different route groups (auth vs api).
// A Redis failure lets the request through rather than blocking traffic.
func RateLimit(rdb *redis.Client, scope string, max int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", scope, c.ClientIP())
		ctx := c.Request.Context()

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			if err := rdb.Expire(ctx, key, window).Err(); err != nil {
				logger.Warn("rate limiter expire failed", zap.Error(err))
			}
		}

		if count > int64(max) {
			response.AbortError(c, errno.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
