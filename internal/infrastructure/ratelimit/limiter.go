package ratelimit

import (
	"context"
	"time"

	"sentrix/internal/app/port"
	"sentrix/internal/metrics"
)

const keyPrefix = "ratelimit"

// Limiter implements port.RateLimiter as a fixed window per account and endpoint.
type Limiter struct {
	store  Store
	max    int
	window time.Duration
	logger port.Logger
}

// NewLimiter allows max requests per window for each (account, endpoint) pair.
func NewLimiter(store Store, max int, window time.Duration, l port.Logger) *Limiter {
	return &Limiter{store: store, max: max, window: window, logger: l}
}

func key(accountID, endpoint string) string {
	return keyPrefix + ":" + accountID + ":" + endpoint
}

// Allow counts one request. Store failures let the request through.
func (l *Limiter) Allow(ctx context.Context, accountID, endpoint string) port.RateDecision {
	count, err := l.store.Incr(ctx, key(accountID, endpoint), l.window)
	if err != nil {
		l.logger.Warn("Rate limit store unavailable, allowing request",
			"accountID", accountID,
			"endpoint", endpoint,
			"error", err)
		metrics.RateLimitDecisionsTotal.WithLabelValues("fail_open").Inc()
		return port.RateDecision{Allowed: true, Remaining: l.max}
	}

	remaining := l.max - int(count)
	if remaining < 0 {
		remaining = 0
	}
	if int(count) > l.max {
		metrics.RateLimitDecisionsTotal.WithLabelValues("denied").Inc()
		return port.RateDecision{Allowed: false, Remaining: 0}
	}
	metrics.RateLimitDecisionsTotal.WithLabelValues("allowed").Inc()
	return port.RateDecision{Allowed: true, Remaining: remaining}
}

func (l *Limiter) Reset(ctx context.Context, accountID, endpoint string) error {
	return l.store.Reset(ctx, key(accountID, endpoint))
}

// Limit is the configured maximum per window.
func (l *Limiter) Limit() int {
	return l.max
}
