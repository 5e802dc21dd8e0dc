package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrymomot/sidemount/core/handler"
	"github.com/dmitrymomot/sidemount/core/response"
)

// RateLimitConfig configures the token bucket rate limiter.
type RateLimitConfig struct {
	// Skip bypasses rate limiting for specific requests
	Skip func(ctx handler.Context) bool

	// Capacity is the bucket size, i.e. the allowed burst (default: 10)
	Capacity float64

	// RefillRate is tokens added per second (default: 10)
	RefillRate float64

	// KeyFunc derives the client key (default: remote IP)
	KeyFunc func(ctx handler.Context) string
}

// tokenBucket is a per-client token bucket.
type tokenBucket struct {
	tokens     float64
	lastRefill time.Time
}

// RateLimit returns a chain handler limiting each client to 10 requests
// per second with a burst of 10. Requests over the limit short-circuit
// with 429 Too Many Requests.
func RateLimit[C handler.Context]() handler.HandlerFunc[C] {
	return RateLimitWithConfig[C](RateLimitConfig{})
}

// RateLimitWithConfig returns a rate limiting chain handler with custom
// configuration.
func RateLimitWithConfig[C handler.Context](cfg RateLimitConfig) handler.HandlerFunc[C] {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 10
	}
	if cfg.RefillRate <= 0 {
		cfg.RefillRate = 10
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(ctx handler.Context) string {
			host, _, err := net.SplitHostPort(ctx.Request().RemoteAddr)
			if err != nil {
				return ctx.Request().RemoteAddr
			}
			return host
		}
	}

	var mu sync.Mutex
	buckets := make(map[string]*tokenBucket)

	return func(ctx C) handler.Response {
		if cfg.Skip != nil && cfg.Skip(ctx) {
			return nil
		}

		key := cfg.KeyFunc(ctx)
		now := time.Now()

		mu.Lock()
		tb, ok := buckets[key]
		if !ok {
			tb = &tokenBucket{tokens: cfg.Capacity, lastRefill: now}
			buckets[key] = tb
		}

		elapsed := now.Sub(tb.lastRefill).Seconds()
		tb.tokens = min(cfg.Capacity, tb.tokens+elapsed*cfg.RefillRate)
		tb.lastRefill = now

		allowed := tb.tokens >= 1.0
		if allowed {
			tb.tokens -= 1.0
		}
		mu.Unlock()

		if !allowed {
			ctx.ResponseWriter().Header().Set("Retry-After", "1")
			return response.Status(http.StatusTooManyRequests)
		}
		return nil
	}
}
