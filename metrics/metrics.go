// Package metrics provides Prometheus metrics for with-defaults retrievals.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeOK              = "ok"
	OutcomeNotFound        = "not_found"
	OutcomeUnsupportedMode = "unsupported_mode"
	OutcomeSchemaMismatch  = "schema_mismatch"
	OutcomeDatastoreError  = "datastore_error"
	OutcomeCanceled        = "canceled"
)

// Collector holds the retrieval metrics. A nil *Collector is valid and
// records nothing.
type Collector struct {
	Retrievals *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
	// Nodes counts value nodes per pipeline stage: "built" before filtering,
	// "emitted" in the reply.
	Nodes *prometheus.CounterVec
}

// New creates a collector registered with reg. A nil reg uses the default
// Prometheus registerer.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Collector{
		Retrievals: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "withdefaults",
				Name:      "retrievals_total",
				Help:      "Total number of get-config retrievals by effective mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		Duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "withdefaults",
				Name:      "retrieval_duration_seconds",
				Help:      "Time spent building, filtering and assembling a reply",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"mode"},
		),
		Nodes: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "withdefaults",
				Name:      "nodes_total",
				Help:      "Value nodes handled per pipeline stage",
			},
			[]string{"mode", "stage"},
		),
	}
}

// ObserveRetrieval records a finished retrieval. built and emitted are node
// counts before and after filtering; they are ignored unless outcome is ok.
func (c *Collector) ObserveRetrieval(mode, outcome string, d time.Duration, built, emitted int) {
	if c == nil {
		return
	}
	c.Retrievals.WithLabelValues(mode, outcome).Inc()
	if outcome != OutcomeOK {
		return
	}
	c.Duration.WithLabelValues(mode).Observe(d.Seconds())
	c.Nodes.WithLabelValues(mode, "built").Add(float64(built))
	c.Nodes.WithLabelValues(mode, "emitted").Add(float64(emitted))
}
