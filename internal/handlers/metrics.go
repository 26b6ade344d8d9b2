package handlers

import "github.com/prometheus/client_golang/prometheus"

type PromoMetrics struct {
	Runs *prometheus.CounterVec
}

func (m *PromoMetrics) IncRun(outcome string) {
	if m == nil || m.Runs == nil {
		return
	}

	m.Runs.WithLabelValues(outcome).Inc()
}
