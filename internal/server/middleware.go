package server

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// clientLimiter keeps one token bucket per client IP. Buckets untouched for
// idle are swept; by then they would have refilled anyway.
type clientLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientBucket
	rate      rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type clientBucket struct {
	limiter *rate.Limiter
	seen    time.Time
}

func newClientLimiter(requestsPerMinute, burst int) *clientLimiter {
	interval := time.Minute / time.Duration(requestsPerMinute)
	idle := max(10*time.Minute, interval*time.Duration(burst))
	return &clientLimiter{
		clients:   make(map[string]*clientBucket),
		rate:      rate.Every(interval),
		burst:     burst,
		idle:      idle,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *clientLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idle {
		for k, b := range l.clients {
			if now.Sub(b.seen) >= l.idle {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.clients[key]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.clients[key] = b
	}
	b.seen = now
	return b.limiter
}

// RateLimit answers 429 once a client exceeds its per-minute budget. A
// non-positive budget disables limiting.
func RateLimit(requestsPerMinute, burst int) fiber.Handler {
	if requestsPerMinute <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	if burst <= 0 {
		burst = 1
	}
	limiter := newClientLimiter(requestsPerMinute, burst)

	return func(c *fiber.Ctx) error {
		if !limiter.get(c.IP()).Allow() {
			c.Set(fiber.HeaderRetryAfter, "60")
			return fiber.NewError(fiber.StatusTooManyRequests, "rate limit exceeded")
		}
		c.Set("X-RateLimit-Limit", strconv.Itoa(requestsPerMinute))
		return c.Next()
	}
}

// RequestLogger writes one structured line per request.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error().Err(err)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Msg("request")
		return err
	}
}
