// Package middleware holds the echo middleware guarding the webhook routes.
package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimiter hands out one token bucket per key.
type RateLimiter struct {
	mu     sync.Mutex
	limits map[string]*limiterEntry
	every  time.Duration
	burst  int
	idle   time.Duration
	now    func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing one event per every, with the given burst.
// Zero values default to 10 requests per second with a burst of 20.
func NewRateLimiter(every time.Duration, burst int) *RateLimiter {
	if every <= 0 {
		every = time.Second / 10
	}
	if burst <= 0 {
		burst = 20
	}
	return &RateLimiter{
		limits: make(map[string]*limiterEntry),
		every:  every,
		burst:  burst,
		idle:   10 * time.Minute,
		now:    time.Now,
	}
}

// getLimiter gets or creates a limiter for the given key and drops idle ones.
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for k, entry := range rl.limits {
		if now.Sub(entry.lastSeen) > rl.idle {
			delete(rl.limits, k)
		}
	}

	if entry, ok := rl.limits[key]; ok {
		entry.lastSeen = now
		return entry.limiter
	}
	limiter := rate.NewLimiter(rate.Every(rl.every), rl.burst)
	rl.limits[key] = &limiterEntry{limiter: limiter, lastSeen: now}
	return limiter
}

// Allow checks if a request is allowed for the given key.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Wait waits for a request to be allowed.
// Returns error if the context is cancelled or rate limit exceeded.
func (rl *RateLimiter) Wait(ctx context.Context, key string) error {
	return rl.getLimiter(key).Wait(ctx)
}

// Size returns the number of tracked keys.
func (rl *RateLimiter) Size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limits)
}

// KeyFunc extracts the rate limit key of a request.
type KeyFunc func(c echo.Context) string

// CallIDHeader is the header the voice platform uses for the call id.
const CallIDHeader = "X-Call-Id"

// CallOrIPKey keys requests by call id header when present, else by client IP.
func CallOrIPKey(c echo.Context) string {
	if id := c.Request().Header.Get(CallIDHeader); id != "" {
		return "call:" + id
	}
	return "ip:" + c.RealIP()
}

// RateLimit rejects requests over the key's budget with 429.
func RateLimit(rl *RateLimiter, key KeyFunc) echo.MiddlewareFunc {
	if key == nil {
		key = CallOrIPKey
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.Allow(key(c)) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
