// Package metrics provides Prometheus metrics for the search relay.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess       = "success"
	OutcomeUpstreamError = "upstream_error"
	OutcomeProxyError    = "proxy_error"
)

var (
	// RelayRequestsTotal counts forwarded requests by outcome.
	RelayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docsearch",
			Name:      "relay_requests_total",
			Help:      "Total number of requests relayed to the search backend",
		},
		[]string{"outcome"},
	)

	// RelayDuration measures the round trip to the search backend.
	RelayDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docsearch",
			Name:      "relay_duration_seconds",
			Help:      "Duration of relayed requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	// PageSearchesTotal counts searches submitted from the search page.
	PageSearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docsearch",
			Name:      "page_searches_total",
			Help:      "Total number of searches submitted from the search page",
		},
		[]string{"status"},
	)
)

// RecordRelay records one relayed request.
func RecordRelay(outcome string, duration float64) {
	RelayRequestsTotal.WithLabelValues(outcome).Inc()
	RelayDuration.WithLabelValues(outcome).Observe(duration)
}

// RecordPageSearch records one search issued by the search page.
func RecordPageSearch(status string) {
	PageSearchesTotal.WithLabelValues(status).Inc()
}
