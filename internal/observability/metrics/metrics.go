package metrics

import "github.com/prometheus/client_golang/prometheus"

// RelayMetrics exposes counters/histograms for the webhook relay flow.
type RelayMetrics struct {
	inboundTotal      *prometheus.CounterVec
	completionTotal   *prometheus.CounterVec
	completionLatency prometheus.Histogram
	outboundTotal     *prometheus.CounterVec
}

func NewRelayMetrics(reg prometheus.Registerer) *RelayMetrics {
	m := &RelayMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "travelmate",
			Subsystem: "webhook",
			Name:      "inbound_total",
			Help:      "Total inbound WhatsApp webhooks",
		}, []string{"outcome"}),
		completionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "travelmate",
			Subsystem: "llm",
			Name:      "completion_total",
			Help:      "Total LLM completion calls",
		}, []string{"status"}),
		completionLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "travelmate",
			Subsystem: "llm",
			Name:      "completion_latency_seconds",
			Help:      "Latency of LLM completion calls",
			Buckets:   prometheus.DefBuckets,
		}),
		outboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "travelmate",
			Subsystem: "messaging",
			Name:      "outbound_total",
			Help:      "Total outbound Twilio sends",
		}, []string{"kind", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.completionTotal, m.completionLatency, m.outboundTotal)
	return m
}

func (m *RelayMetrics) ObserveInbound(outcome string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(outcome).Inc()
}

func (m *RelayMetrics) ObserveCompletion(status string, seconds float64) {
	if m == nil {
		return
	}
	m.completionTotal.WithLabelValues(status).Inc()
	m.completionLatency.Observe(seconds)
}

func (m *RelayMetrics) ObserveOutbound(kind, status string) {
	if m == nil {
		return
	}
	m.outboundTotal.WithLabelValues(kind, status).Inc()
}
