package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/codewandler/actr-go/core/metrics"
)

// LinkMetrics instruments the NATS up- and downlink.
type LinkMetrics struct {
	Published    metrics.Counter
	Failed       metrics.Counter
	PayloadBytes metrics.Histogram
	Dropped      metrics.Counter
}

// NewLinkMetrics registers the link metrics on reg.
func NewLinkMetrics(reg prometheus.Registerer) *LinkMetrics {
	published := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "actr_uplink_published_total",
		Help: "Total number of values published by the uplink",
	})
	failed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "actr_uplink_failed_total",
		Help: "Total number of values the uplink failed to publish",
	})
	payload := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "actr_uplink_payload_bytes",
		Help:    "Size of published payloads in bytes",
		Buckets: prometheus.ExponentialBuckets(16, 2, 8),
	})
	dropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "actr_downlink_dropped_total",
		Help: "Total number of downlink messages discarded",
	})

	reg.MustRegister(published, failed, payload, dropped)

	return &LinkMetrics{
		Published:    published,
		Failed:       failed,
		PayloadBytes: payload,
		Dropped:      dropped,
	}
}
