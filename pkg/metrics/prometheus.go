// Package metrics records per-turn dialogue metrics in Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusRecorder implements the orchestrator's Recorder.
type PrometheusRecorder struct {
	turnsTotal      *prometheus.CounterVec
	turnDuration    *prometheus.HistogramVec
	storeErrorTotal *prometheus.CounterVec
	webhookEvents   *prometheus.CounterVec
}

// NewPrometheusRecorder registers its collectors with reg. A nil reg uses the
// default registerer.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusRecorder{
		turnsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "schedbot_turns_total",
				Help: "Total number of dialogue turns by intent and reply kind",
			},
			[]string{"intent", "reply"},
		),
		turnDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "schedbot_turn_duration_seconds",
				Help:    "Duration of dialogue turns in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"intent"},
		),
		storeErrorTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "schedbot_store_errors_total",
				Help: "Total number of turns that recovered from a store failure",
			},
			[]string{"intent"},
		),
		webhookEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "schedbot_webhook_events_total",
				Help: "Total number of webhook events by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// ObserveTurn records a completed turn. An empty intent is reported as "none".
func (p *PrometheusRecorder) ObserveTurn(intent string, reply string, duration time.Duration) {
	intent = labelOrNone(intent)
	p.turnsTotal.WithLabelValues(intent, labelOrNone(reply)).Inc()
	p.turnDuration.WithLabelValues(intent).Observe(duration.Seconds())
}

func (p *PrometheusRecorder) IncStoreError(intent string) {
	p.storeErrorTotal.WithLabelValues(labelOrNone(intent)).Inc()
}

// IncWebhookEvent counts one inbound webhook event by what happened to it
// (handled, skipped, failed, reply_failed).
func (p *PrometheusRecorder) IncWebhookEvent(outcome string) {
	p.webhookEvents.WithLabelValues(labelOrNone(outcome)).Inc()
}

func labelOrNone(v string) string {
	if v == "" {
		return "none"
	}
	return v
}
