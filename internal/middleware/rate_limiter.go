package middleware

import (
	"sync"
	"time"

	"banking-api/internal/errors"
	"banking-api/internal/handlers"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter tracks a token-bucket limiter per client IP. Visitors idle
// for longer than the expiry window are evicted by a background sweep.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor

	requestsPerSecond int
	burstSize         int
}

// 5 req/sec with small bursts keeps brute-force attempts impractical
// without getting in the way of normal API clients.
const (
	defaultRequestsPerSecond = 5
	defaultBurstSize         = 10

	visitorExpiry = 3 * time.Minute
	cleanupEvery  = time.Minute
)

// NewRateLimiter creates a per-IP rate limiter. Non-positive values fall
// back to the defaults.
func NewRateLimiter(requestsPerSecond, burstSize int) *RateLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = defaultRequestsPerSecond
	}
	if burstSize <= 0 {
		burstSize = defaultBurstSize
	}

	rl := &RateLimiter{
		visitors:          make(map[string]*visitor),
		requestsPerSecond: requestsPerSecond,
		burstSize:         burstSize,
	}
	go rl.cleanupLoop()

	return rl
}

// Middleware returns the echo middleware enforcing the rate limit
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.allow(getIP(c)) {
				return handlers.SendError(c, errors.SystemRateLimitExceeded)
			}
			return next(c)
		}
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	v, exists := rl.visitors[ip]
	if !exists {
		v = &visitor{
			limiter: rate.NewLimiter(rate.Limit(rl.requestsPerSecond), rl.burstSize),
		}
		rl.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	rl.mu.Unlock()

	return v.limiter.Allow()
}

func (rl *RateLimiter) cleanupLoop() {
	for {
		time.Sleep(cleanupEvery)

		rl.mu.Lock()
		for ip, v := range rl.visitors {
			if time.Since(v.lastSeen) > visitorExpiry {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

func getIP(c echo.Context) string {
	xff := c.Request().Header.Get("X-Forwarded-For")
	if xff != "" {
		return xff
	}

	xri := c.Request().Header.Get("X-Real-IP")
	if xri != "" {
		return xri
	}

	return c.RealIP()
}
