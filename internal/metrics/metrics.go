// Package metrics holds the Prometheus collectors for the linking pipeline,
// the bulk sweeps and the text generator.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "t4h"

// Metrics holds all custom Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	LinksCreated     *prometheus.CounterVec
	LinksSkipped     *prometheus.CounterVec
	SweepRecords     *prometheus.CounterVec
	GenerationCalls  *prometheus.CounterVec
	PipelineDuration *prometheus.HistogramVec
}

// New registers the collectors with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		LinksCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "links_created_total",
			Help:      "Total number of links persisted, by link type",
		}, []string{"link_type"}),

		LinksSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "links_skipped_total",
			Help:      "Total number of candidate links whose insert failed",
		}, []string{"source_kind"}),

		SweepRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_records_total",
			Help:      "Records processed by bulk sweeps, by sweep and outcome",
		}, []string{"sweep", "outcome"}), // outcome: "success" or "failure"

		GenerationCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_calls_total",
			Help:      "Text generation calls by provider and outcome",
		}, []string{"provider", "outcome"}),

		PipelineDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "Duration of one pipeline run in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"pipeline"}),
	}
}

// RecordLinkCreated counts one persisted link
func (m *Metrics) RecordLinkCreated(linkType string) {
	if m == nil {
		return
	}
	m.LinksCreated.WithLabelValues(linkType).Inc()
}

// RecordLinkSkipped counts one failed link insert
func (m *Metrics) RecordLinkSkipped(sourceKind string) {
	if m == nil {
		return
	}
	m.LinksSkipped.WithLabelValues(sourceKind).Inc()
}

// RecordSweepRecord counts one record processed by a sweep
func (m *Metrics) RecordSweepRecord(sweep string, success bool) {
	if m == nil {
		return
	}
	m.SweepRecords.WithLabelValues(sweep, outcome(success)).Inc()
}

// RecordGeneration counts one generator call
func (m *Metrics) RecordGeneration(provider string, success bool) {
	if m == nil {
		return
	}
	m.GenerationCalls.WithLabelValues(provider, outcome(success)).Inc()
}

// ObservePipeline records the time since start for a pipeline
func (m *Metrics) ObservePipeline(pipeline string, start time.Time) {
	if m == nil {
		return
	}
	m.PipelineDuration.WithLabelValues(pipeline).Observe(time.Since(start).Seconds())
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
