package security

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
)

// RateLimiter throttles gate scanners with a fixed per-minute window kept in
// redis, so the limit holds across replicas.
type RateLimiter struct {
	redis     *redis.Client
	maxPerMin int64
}

func NewRateLimiter(redisClient *redis.Client, maxPerMinute int) *RateLimiter {
	if maxPerMinute <= 0 {
		maxPerMinute = 60
	}
	return &RateLimiter{redis: redisClient, maxPerMin: int64(maxPerMinute)}
}

// Allow counts one request from the client and reports whether it stays
// under the limit. Redis trouble fails open: a broken limiter must not stop
// the gates.
func (r *RateLimiter) Allow(ctx context.Context, clientIP string) bool {
	key := fmt.Sprintf("ratelimit:scan:%s", clientIP)

	count, err := r.redis.Incr(ctx, key).Result()
	if err != nil {
		slog.Warn("scan rate limiter unavailable", "error", err)
		return true
	}
	if count == 1 {
		r.redis.Expire(ctx, key, time.Minute)
	}
	return count <= r.maxPerMin
}

// ScanRateLimit is the route middleware form of Allow.
func (r *RateLimiter) ScanRateLimit() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if !r.Allow(e.Request.Context(), e.RealIP()) {
			return apis.NewApiError(http.StatusTooManyRequests,
				"Rate limit exceeded. Please try again later.", nil)
		}
		return e.Next()
	}
}
