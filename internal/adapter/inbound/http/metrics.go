package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the server's Prometheus metrics.
type Metrics struct {
	RequestsTotal     *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	StreamingSessions prometheus.Gauge
	LegacySessions    prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RequestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "s2t",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests processed",
			},
			[]string{"method", "status"},
		),
		RequestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "s2t",
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		StreamingSessions: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Namespace: "s2t",
				Name:      "streaming_sessions",
				Help:      "Number of live streaming-HTTP sessions",
			},
		),
		LegacySessions: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Namespace: "s2t",
				Name:      "legacy_sessions",
				Help:      "Number of open legacy SSE connections",
			},
		),
	}
}
