// internal/server/ratelimit.go
package server

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"valuation-leads/internal/common/config"
	apperrors "valuation-leads/internal/common/errors"
	"valuation-leads/internal/common/logger"
	"valuation-leads/internal/common/metrics"
)

// WindowCounter counts hits per key in a fixed window.
// *database.RedisClient satisfies it.
type WindowCounter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RateLimiter caps requests per client IP. Counters live in Redis so every
// instance shares them.
type RateLimiter struct {
	counter WindowCounter
	limit   int64
	window  time.Duration
	prefix  string
	logger  logger.Logger
}

func NewRateLimiter(counter WindowCounter, cfg config.RateLimitConfig, log logger.Logger) *RateLimiter {
	window := config.GetDuration(cfg.Window)
	if window <= 0 {
		window = time.Minute
	}
	limit := int64(cfg.Requests)
	if limit <= 0 {
		limit = 5
	}
	return &RateLimiter{
		counter: counter,
		limit:   limit,
		window:  window,
		prefix:  cfg.KeyPrefix,
		logger:  log,
	}
}

// Allow records a hit for client. When the counter store is unreachable the
// request is allowed.
func (l *RateLimiter) Allow(ctx context.Context, client string) (bool, time.Duration) {
	count, ttl, err := l.counter.IncrWindow(ctx, l.prefix+client, l.window)
	if err != nil {
		l.logger.Warn("rate limiter unavailable, allowing request", map[string]interface{}{
			"client": client,
			"error":  err.Error(),
		})
		return true, 0
	}
	if count > l.limit {
		return false, ttl
	}
	return true, 0
}

// Middleware rejects clients over the limit with 429 and a Retry-After header.
func (l *RateLimiter) Middleware(errs *apperrors.ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			allowed, retryAfter := l.Allow(r.Context(), ip)
			if !allowed {
				metrics.RateLimitedRequests.Inc()
				metrics.EnquiriesSubmitted.WithLabelValues(metrics.OutcomeRateLimited).Inc()
				w.Header().Set("Retry-After", strconv.Itoa(retrySeconds(retryAfter)))
				errs.Respond(w, r, apperrors.NewRateLimitedError(retryAfter))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func retrySeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}
