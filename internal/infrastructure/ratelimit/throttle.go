package ratelimit

import (
	"context"

	"golang.org/x/time/rate"

	"sentrix/internal/metrics"
)

// Throttle is a token bucket for outbound explorer calls.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle allows rps requests per second with a burst capacity of burst tokens.
func NewThrottle(rps float64, burst int) *Throttle {
	return &Throttle{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Wait blocks until one token is available or ctx is done.
func (t *Throttle) Wait(ctx context.Context, chain string) error {
	if t.limiter.Tokens() < 1 {
		metrics.UpstreamRateLimitWaits.WithLabelValues(chain).Inc()
	}
	return t.limiter.Wait(ctx)
}
