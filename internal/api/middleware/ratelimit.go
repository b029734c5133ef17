package middleware

import (
	"fmt"
	"strconv"
	"time"

	apperrors "jobtrack/internal/common/errors"
	"jobtrack/internal/common/logger"
	"jobtrack/internal/common/metrics"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// fixedWindow increments the counter and starts the window on the first hit.
// Returns {count, remaining ttl in ms}.
var fixedWindow = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

type RateLimiter struct {
	client   redis.Scripter
	requests int
	window   time.Duration
	logger   logger.Logger
}

func NewRateLimiter(client redis.Scripter, requests int, window time.Duration, log logger.Logger) *RateLimiter {
	return &RateLimiter{client: client, requests: requests, window: window, logger: log}
}

// Handler limits per authenticated user, or per client IP before authentication.
// Redis failures let the request through.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := "ip:" + c.ClientIP()
		if uid, ok := c.Get(ctxUserID); ok {
			identity = fmt.Sprintf("user:%v", uid)
		}
		key := "ratelimit:" + identity

		res, err := fixedWindow.Run(c.Request.Context(), rl.client, []string{key}, rl.window.Milliseconds()).Int64Slice()
		if err != nil || len(res) != 2 {
			logger.FromContext(c.Request.Context(), rl.logger).Warn("rate limiter unavailable", map[string]interface{}{
				"key":   key,
				"error": err,
			})
			c.Next()
			return
		}

		count, ttl := res[0], time.Duration(res[1])*time.Millisecond
		remaining := int64(rl.requests) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.requests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(rl.requests) {
			if ttl < time.Second {
				ttl = time.Second
			}
			metrics.RateLimitedTotal.Inc()
			c.Header("Retry-After", strconv.Itoa(int((ttl+time.Second-1)/time.Second)))
			abort(c, apperrors.NewRateLimitedError(ttl))
			return
		}
		c.Next()
	}
}
