package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentrix/internal/pkg/logger"
)

type brokenStore struct{}

func (brokenStore) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("dial tcp: connection refused")
}

func (brokenStore) Reset(context.Context, string) error {
	return errors.New("dial tcp: connection refused")
}

func TestLimiterFixedWindow(t *testing.T) {
	l := NewLimiter(NewMemoryStore(), 3, time.Minute, logger.Nop{})
	ctx := context.Background()

	for want := 2; want >= 0; want-- {
		d := l.Allow(ctx, "acct", "/wallet")
		assert.True(t, d.Allowed)
		assert.Equal(t, want, d.Remaining)
	}
	d := l.Allow(ctx, "acct", "/wallet")
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)

	// separate endpoint and account have their own counters
	assert.True(t, l.Allow(ctx, "acct", "/transactions").Allowed)
	assert.True(t, l.Allow(ctx, "other", "/wallet").Allowed)

	require.NoError(t, l.Reset(ctx, "acct", "/wallet"))
	assert.True(t, l.Allow(ctx, "acct", "/wallet").Allowed)
}

func TestLimiterWindowExpires(t *testing.T) {
	l := NewLimiter(NewMemoryStore(), 1, 50*time.Millisecond, logger.Nop{})
	ctx := context.Background()

	assert.True(t, l.Allow(ctx, "acct", "/x").Allowed)
	assert.False(t, l.Allow(ctx, "acct", "/x").Allowed)

	time.Sleep(80 * time.Millisecond)
	assert.True(t, l.Allow(ctx, "acct", "/x").Allowed)
}

func TestLimiterFailsOpen(t *testing.T) {
	l := NewLimiter(brokenStore{}, 5, time.Minute, logger.Nop{})

	d := l.Allow(context.Background(), "acct", "/wallet")
	assert.True(t, d.Allowed)
	assert.Equal(t, 5, d.Remaining)
	assert.Error(t, l.Reset(context.Background(), "acct", "/wallet"))
}
