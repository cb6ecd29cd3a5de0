package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestClassifyUpstreamError(t *testing.T) {
	cases := map[string]error{
		"ok":            nil,
		"timeout":       errors.New("failed to execute request: timeout"),
		"rate_limited":  errors.New("request failed with status 429: too many requests"),
		"server_error":  errors.New("request to x failed with status 502: bad gateway"),
		"malformed":     errors.New("failed to decode response from x"),
		"network_error": errors.New("dial tcp: connection refused"),
		"error":         errors.New("something else"),
	}
	for want, err := range cases {
		assert.Equal(t, want, ClassifyUpstreamError(err))
	}
}

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(SyncTransactionsTotal.WithLabelValues("inserted"))
	SyncTransactionsTotal.WithLabelValues("inserted").Add(2)
	assert.InDelta(t, before+2, testutil.ToFloat64(SyncTransactionsTotal.WithLabelValues("inserted")), 0.0001)
}
