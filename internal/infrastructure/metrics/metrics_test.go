package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	// Replace global default registry to allow test inspection.
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry

	m := New()

	if m.Queries == nil || m.Reconciliations == nil || m.DBQueries == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.Queries.WithLabelValues("summary").Inc()

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}

func TestNewWithRegistryIsolated(t *testing.T) {
	first := NewWithRegistry(prometheus.NewRegistry())
	second := NewWithRegistry(prometheus.NewRegistry())

	first.Reconciliations.WithLabelValues("balanced").Inc()
	first.CacheHits.Inc()
	first.CacheHits.Inc()

	if got := testutil.ToFloat64(first.Reconciliations.WithLabelValues("balanced")); got != 1 {
		t.Fatalf("expected 1 balanced reconciliation, got %v", got)
	}
	if got := testutil.ToFloat64(first.CacheHits); got != 2 {
		t.Fatalf("expected 2 cache hits, got %v", got)
	}
	if got := testutil.ToFloat64(second.CacheHits); got != 0 {
		t.Fatalf("expected separate registries not to share counters, got %v", got)
	}
}
