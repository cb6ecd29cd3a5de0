package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Upstream APIs
	UpstreamCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sentrix",
		Subsystem: "upstream",
		Name:      "calls_total",
		Help:      "Total upstream API calls by outcome",
	}, []string{"upstream", "chain", "status"})

	UpstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sentrix",
		Subsystem: "upstream",
		Name:      "call_duration_seconds",
		Help:      "Upstream API call duration",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"upstream"})

	UpstreamRateLimitWaits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sentrix",
		Subsystem: "upstream",
		Name:      "rate_limit_waits_total",
		Help:      "Explorer calls delayed by the outbound token bucket",
	}, []string{"chain"})

	// Resolver and fetcher
	ResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sentrix",
		Subsystem: "resolver",
		Name:      "results_total",
		Help:      "Balance and transaction results by mode",
	}, []string{"kind", "mode"})

	PriceLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sentrix",
		Subsystem: "resolver",
		Name:      "price_lookups_total",
		Help:      "Native price lookups by source",
	}, []string{"source"})

	// Sync
	SyncRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sentrix",
		Subsystem: "sync",
		Name:      "runs_total",
		Help:      "Transaction sync runs by fetch mode",
	}, []string{"mode"})

	SyncTransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sentrix",
		Subsystem: "sync",
		Name:      "transactions_total",
		Help:      "Transactions seen by sync, inserted or skipped",
	}, []string{"result"})

	// Wallets
	WalletOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sentrix",
		Subsystem: "wallet",
		Name:      "operations_total",
		Help:      "Wallet record operations",
	}, []string{"operation", "status"})

	// Security
	LoginsTrackedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sentrix",
		Subsystem: "security",
		Name:      "logins_total",
		Help:      "Tracked logins",
	}, []string{"suspicious"})

	SecurityAlertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sentrix",
		Subsystem: "security",
		Name:      "alerts_total",
		Help:      "Security alerts raised",
	}, []string{"type", "severity"})

	// HTTP
	RateLimitDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sentrix",
		Subsystem: "http",
		Name:      "rate_limit_decisions_total",
		Help:      "Per-account rate limit decisions",
	}, []string{"outcome"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sentrix",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served",
	}, []string{"method", "route", "status"})

	HTTPRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sentrix",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// ClassifyUpstreamError maps an upstream call error to a status label.
func ClassifyUpstreamError(err error) string {
	if err == nil {
		return "ok"
	}
	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline exceeded"):
		return "timeout"
	case strings.Contains(lower, "rate limit") || strings.Contains(lower, "429") || strings.Contains(lower, "too many requests"):
		return "rate_limited"
	case strings.Contains(lower, "status 5"):
		return "server_error"
	case strings.Contains(lower, "decode") || strings.Contains(lower, "unmarshal"):
		return "malformed"
	case strings.Contains(lower, "connection refused") || strings.Contains(lower, "connection reset") ||
		strings.Contains(lower, "no such host") || strings.Contains(lower, "eof"):
		return "network_error"
	default:
		return "error"
	}
}
