package ratelimit

import "github.com/prometheus/client_golang/prometheus"

// Metrics exports admission counters. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	allowed  *prometheus.CounterVec
	blocked  *prometheus.CounterVec
	errors   prometheus.Counter
	records  prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketplace_rate_limit_requests_total",
				Help: "Total number of rate limit checks",
			},
			[]string{"route"},
		),
		allowed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketplace_rate_limit_allowed_total",
				Help: "Total number of admitted requests",
			},
			[]string{"route"},
		),
		blocked: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketplace_rate_limit_blocked_total",
				Help: "Total number of rejected requests",
			},
			[]string{"route"},
		),
		errors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "marketplace_rate_limit_errors_total",
				Help: "Total number of counter store failures",
			},
		),
		records: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "marketplace_rate_limit_records",
				Help: "Number of in-memory rate limit records after the last sweep",
			},
		),
	}

	reg.MustRegister(m.requests, m.allowed, m.blocked, m.errors, m.records)
	return m
}

func (m *Metrics) observe(route string, allowed bool) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route).Inc()
	if allowed {
		m.allowed.WithLabelValues(route).Inc()
	} else {
		m.blocked.WithLabelValues(route).Inc()
	}
}

func (m *Metrics) observeError() {
	if m == nil {
		return
	}
	m.errors.Inc()
}

func (m *Metrics) setRecords(n int) {
	if m == nil {
		return
	}
	m.records.Set(float64(n))
}
