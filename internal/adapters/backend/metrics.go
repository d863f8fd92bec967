package backend

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the Prometheus collectors of the backend client.
type Metrics struct {
	duration *prometheus.HistogramVec
	cache    *prometheus.CounterVec
}

// NewMetrics creates and registers the client collectors on reg.
// PRE: reg is non-nil and has no collectors with the same names
// POST: returned Metrics is ready to observe
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fitflow",
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Duration of FitFlow API calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fitflow",
			Subsystem: "backend",
			Name:      "cache_lookups_total",
			Help:      "Cached backend reads by outcome.",
		}, []string{"resource", "outcome"}),
	}
	reg.MustRegister(m.duration, m.cache)
	return m
}

func (m *Metrics) observe(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(method, route, status).Observe(seconds)
}

func (m *Metrics) cacheLookup(resource, outcome string) {
	if m == nil {
		return
	}
	m.cache.WithLabelValues(resource, outcome).Inc()
}
