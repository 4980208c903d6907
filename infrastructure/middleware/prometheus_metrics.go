// Package middleware provides operational instrumentation for the
// evaluation engine, implementing the ports.MetricsCollector boundary
// on top of Prometheus.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics implements ports.MetricsCollector with Prometheus
// counters and histograms covering judge calls, token consumption, and
// evaluation-stage latency.
type PrometheusMetrics struct {
	requests     *prometheus.CounterVec
	tokens       *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	stageLatency *prometheus.HistogramVec
}

// NewPrometheusMetrics registers the collector's metrics on the given
// registerer. Passing nil uses the default global registry.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "judge_llm_requests_total",
				Help: "Total judge LLM calls by model and outcome.",
			},
			[]string{"model", "status"},
		),
		tokens: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "judge_llm_tokens_total",
				Help: "Total judge LLM tokens consumed by model and direction.",
			},
			[]string{"model", "token_type"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "judge_llm_latency_seconds",
				Help:    "Latency of judge LLM calls.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"model", "status"},
		),
		stageLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "evaluation_stage_duration_seconds",
				Help:    "Duration of evaluation stages (search, judge, metrics).",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordLatency implements ports.MetricsCollector for stage timings.
func (pm *PrometheusMetrics) RecordLatency(operation string, duration time.Duration, labels map[string]string) {
	pm.stageLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCounter implements ports.MetricsCollector. Metric names not
// owned by this collector are ignored.
func (pm *PrometheusMetrics) RecordCounter(metric string, value float64, labels map[string]string) {
	switch metric {
	case "judge_llm_requests_total":
		pm.requests.WithLabelValues(labels["model"], labels["status"]).Add(value)
	case "judge_llm_tokens_total":
		pm.tokens.WithLabelValues(labels["model"], labels["token_type"]).Add(value)
	}
}

// RecordHistogram implements ports.MetricsCollector.
func (pm *PrometheusMetrics) RecordHistogram(metric string, value float64, labels map[string]string) {
	if metric == "judge_llm_latency_seconds" {
		pm.latency.WithLabelValues(labels["model"], labels["status"]).Observe(value)
	}
}
