package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eduspace/course-server-go/pkg/cache"
	"github.com/eduspace/course-server-go/pkg/response"
)

// RateLimiter throttles requests per client IP. When a Redis-backed cache
// client is available the counters live there so limits hold across
// instances; otherwise it falls back to in-process buckets.
type RateLimiter struct {
	cache    cache.Client
	requests map[string]*bucket
	mu       sync.Mutex
	rate     int
	window   time.Duration
}

type bucket struct {
	count     int
	windowEnd time.Time
}

// NewRateLimiter creates a rate limiter allowing rate requests per window.
func NewRateLimiter(cacheClient cache.Client, rate int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		cache:    cacheClient,
		requests: make(map[string]*bucket),
		rate:     rate,
		window:   window,
	}

	go rl.cleanup()

	return rl
}

// Middleware returns a Gin middleware that enforces rate limiting.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c) {
			response.Error(c, http.StatusTooManyRequests, "Too many requests. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) allow(c *gin.Context) bool {
	key := c.ClientIP()

	if rl.cache != nil && rl.cache.Enabled() {
		ctx := c.Request.Context()
		counterKey := fmt.Sprintf("ratelimit:%s", key)

		count, err := rl.cache.Increment(ctx, counterKey)
		if err != nil {
			// Fail open on cache trouble rather than blocking traffic.
			return true
		}
		if count == 1 {
			_ = rl.cache.Expire(ctx, counterKey, rl.window)
		}
		return count <= int64(rl.rate)
	}

	return rl.allowLocal(key)
}

func (rl *RateLimiter) allowLocal(key string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.requests[key]
	if !ok || now.After(b.windowEnd) {
		rl.requests[key] = &bucket{count: 1, windowEnd: now.Add(rl.window)}
		return true
	}

	b.count++
	return b.count <= rl.rate
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-time.Hour)

		rl.mu.Lock()
		for key, b := range rl.requests {
			if b.windowEnd.Before(cutoff) {
				delete(rl.requests, key)
			}
		}
		rl.mu.Unlock()
	}
}
