package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordLinkCreated("reference")
	m.RecordLinkCreated("reference")
	m.RecordLinkSkipped("exemplar")
	m.RecordSweepRecord("research-links", true)
	m.RecordSweepRecord("research-links", false)
	m.RecordGeneration("openai", false)

	if got := testutil.ToFloat64(m.LinksCreated.WithLabelValues("reference")); got != 2 {
		t.Errorf("expected 2 links created, got %v", got)
	}
	if got := testutil.ToFloat64(m.LinksSkipped.WithLabelValues("exemplar")); got != 1 {
		t.Errorf("expected 1 link skipped, got %v", got)
	}
	if got := testutil.ToFloat64(m.SweepRecords.WithLabelValues("research-links", "failure")); got != 1 {
		t.Errorf("expected 1 failed sweep record, got %v", got)
	}
	if got := testutil.ToFloat64(m.GenerationCalls.WithLabelValues("openai", "failure")); got != 1 {
		t.Errorf("expected 1 failed generation, got %v", got)
	}
}

func TestMetrics_ObservePipeline(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObservePipeline("link_exemplar", time.Now().Add(-time.Second))

	if n := testutil.CollectAndCount(m.PipelineDuration); n != 1 {
		t.Errorf("expected 1 histogram series, got %d", n)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	// None of these may panic
	m.RecordLinkCreated("related")
	m.RecordLinkSkipped("exemplar")
	m.RecordSweepRecord("expansion", true)
	m.RecordGeneration("gemini", true)
	m.ObservePipeline("link_exemplar", time.Now())
}

func TestNew_SeparateRegistries(t *testing.T) {
	// Registering twice on distinct registries must not panic
	_ = New(prometheus.NewRegistry())
	_ = New(prometheus.NewRegistry())
}
