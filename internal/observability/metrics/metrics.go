package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking workflow.
type BookingMetrics struct {
	slotFetches     *prometheus.CounterVec
	submissions     *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		slotFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arcticauto",
			Subsystem: "booking",
			Name:      "slot_fetch_total",
			Help:      "Total slot availability fetches against the shop service",
		}, []string{"outcome"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arcticauto",
			Subsystem: "booking",
			Name:      "submission_total",
			Help:      "Total booking submissions by flow and outcome",
		}, []string{"flow", "outcome"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "arcticauto",
			Subsystem: "booking",
			Name:      "upstream_latency_seconds",
			Help:      "Latency of shop service calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.slotFetches, m.submissions, m.upstreamLatency)
	return m
}

func (m *BookingMetrics) ObserveSlotFetch(outcome string) {
	if m == nil {
		return
	}
	m.slotFetches.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveSubmission(flow, outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(flow, outcome).Inc()
}

func (m *BookingMetrics) ObserveUpstreamLatency(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.upstreamLatency.WithLabelValues(operation).Observe(seconds)
}
