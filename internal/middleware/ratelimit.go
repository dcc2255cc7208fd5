package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// WindowCounter counts hits against a key within a fixed window. The
// returned count includes the current hit.
type WindowCounter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter implements WindowCounter on Redis INCR + EXPIRE.
type RedisCounter struct {
	client *redis.Client
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

func (r *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// RateLimit enforces a fixed-window per-caller request cap. Callers are
// keyed by their x-api-key header, falling back to client IP for
// unauthenticated requests. A nil counter or non-positive limit disables
// the middleware, and counter errors fail open: an unreachable Redis must
// not take the API down with it.
func RateLimit(counter WindowCounter, perMinute int) gin.HandlerFunc {
	if counter == nil || perMinute <= 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		caller := c.GetHeader(APIKeyHeader)
		if caller == "" {
			caller = c.ClientIP()
		}
		window := time.Now().Unix() / 60
		key := fmt.Sprintf("ratelimit:%s:%d", caller, window)

		count, err := counter.Incr(c.Request.Context(), key, time.Minute)
		if err != nil {
			c.Next()
			return
		}
		if count > int64(perMinute) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"message": "Rate limit exceeded",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
