package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bridge_gateway"

var (
	UpstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Requests forwarded to the LI.FI API by path and status.",
	}, []string{"path", "status"})

	UpstreamLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Latency of requests forwarded to the LI.FI API.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"path"})

	ProxyCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "proxy_cache_lookups_total",
		Help:      "Proxy revalidate cache lookups by path and result (hit, miss).",
	}, []string{"path", "result"})

	NormalizedItems = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "normalized_items",
		Help:      "Number of items produced by the chain and token list normalizers.",
		Buckets:   []float64{0, 1, 10, 50, 100, 500, 1000, 5000},
	}, []string{"kind"})

	WalletTransactions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "wallet_transactions_total",
		Help:      "Approval and bridge transactions submitted by the executor.",
	}, []string{"kind", "result"})
)

var registerOnce sync.Once

// MustRegisterMetrics registers every collector with the default registry. Safe to call repeatedly.
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(UpstreamRequests, UpstreamLatency, ProxyCache, NormalizedItems, WalletTransactions)
	})
}

// ObserveUpstream records one forwarded request. A status of 0 means the request never got a response.
func ObserveUpstream(path string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	UpstreamRequests.WithLabelValues(path, label).Inc()
	UpstreamLatency.WithLabelValues(path).Observe(elapsed.Seconds())
}

// CacheLookup records a proxy cache hit or miss.
func CacheLookup(path string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	ProxyCache.WithLabelValues(path, result).Inc()
}
