package rest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the request pipeline.
// Pass to NewClient via WithMetrics; a nil Metrics disables recording.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RefreshesTotal  *prometheus.CounterVec
	RetriesTotal    prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RequestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shopkit",
				Name:      "requests_total",
				Help:      "Total number of backend API requests",
			},
			[]string{"method", "status"}, // status=2xx/4xx/5xx/unreachable
		),
		RequestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "shopkit",
				Name:      "request_duration_seconds",
				Help:      "Backend request duration in seconds",
				Buckets:   prometheus.DefBuckets, // 5ms to 10s
			},
			[]string{"method"},
		),
		RefreshesTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shopkit",
				Name:      "token_refreshes_total",
				Help:      "Total token refresh attempts",
			},
			[]string{"result"}, // result=success/failure
		),
		RetriesTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: "shopkit",
				Name:      "request_retries_total",
				Help:      "Total requests resubmitted after a token refresh",
			},
		),
	}
}

func (m *Metrics) recordRequest(method, status string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, status).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(seconds)
}

func (m *Metrics) recordRefresh(result string) {
	if m == nil {
		return
	}
	m.RefreshesTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) recordRetry() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}
