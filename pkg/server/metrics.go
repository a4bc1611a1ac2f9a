// Copyright 2025 Certen Protocol
//
// Prometheus metrics for the verifier service: counters for verification
// attempts broken down by outcome, and a gauge moved by successful
// registry add/remove requests on the HTTP surface.
package server

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the verifier service's Prometheus collectors.
type Metrics struct {
	VerifyAttempts      *prometheus.CounterVec
	RegisteredSelectors prometheus.Gauge
	SubmitScoreAttempts *prometheus.CounterVec
}

// NewMetrics constructs and registers the verifier service's metrics
// against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		VerifyAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "verifier",
			Name:      "verify_attempts_total",
			Help:      "Total number of receipt verification attempts, labeled by outcome.",
		}, []string{"outcome"}),
		RegisteredSelectors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "verifier",
			Name:      "registered_selectors",
			Help:      "Successful registry add requests minus successful remove requests received over HTTP; registrations made at startup are not counted.",
		}),
		SubmitScoreAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "verifier",
			Subsystem: "laneracer",
			Name:      "submit_score_attempts_total",
			Help:      "Total number of LaneRacer score submissions, labeled by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(m.VerifyAttempts, m.RegisteredSelectors, m.SubmitScoreAttempts)
	return m
}

// outcomeLabel maps a verification error to a low-cardinality label. A nil
// err maps to "ok"; any verifyerr-coded failure maps to its code name;
// anything else (access-control, malformed requests) maps to "error".
func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if code, ok := errorCode(err); ok {
		return code
	}
	return "error"
}
