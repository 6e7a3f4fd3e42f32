package middlewares

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/Kariqs/puffvibe-api/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimit allows at most limit requests per client IP in each window,
// counting in Redis. A nil client or a non-positive limit disables it.
// Redis failures let the request through.
func RateLimit(client *redis.Client, prefix string, limit int, window time.Duration, log *logger.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if client == nil || limit <= 0 {
			ctx.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", prefix, ctx.ClientIP())
		reqCtx := ctx.Request.Context()

		var incr *redis.IntCmd
		var ttl *redis.DurationCmd
		_, err := client.TxPipelined(reqCtx, func(pipe redis.Pipeliner) error {
			incr = pipe.Incr(reqCtx, key)
			ttl = pipe.TTL(reqCtx, key)
			return nil
		})
		if err != nil {
			log.Warn("Rate limiter unavailable", "key", key, "error", err)
			ctx.Next()
			return
		}

		// A counter without an expiry would block the client for good.
		retryAfter := window
		if remainingTTL := ttl.Val(); remainingTTL > 0 {
			retryAfter = remainingTTL
		} else if err := client.Expire(reqCtx, key, window).Err(); err != nil {
			log.Warn("Rate limiter could not set expiry", "key", key, "error", err)
			ctx.Next()
			return
		}
		count := incr.Val()

		remaining := max(int64(limit)-count, 0)
		ctx.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		ctx.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(limit) {
			ctx.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			abortWithMessage(ctx, http.StatusTooManyRequests, "Too many orders from this address, please try again later")
			return
		}

		ctx.Next()
	}
}
