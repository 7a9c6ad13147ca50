package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/msomdec/edunews/internal/metrics"
)

func TestObserveIngestion(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.ObserveIngestion("sample", "success", 3, 1)
	m.ObserveIngestion("sample", "partial", 0, 4)

	if got := testutil.ToFloat64(m.IngestionRuns.WithLabelValues("sample", "success")); got != 1 {
		t.Fatalf("expected 1 success run, got %v", got)
	}
	if got := testutil.ToFloat64(m.ArticlesAdded); got != 3 {
		t.Fatalf("expected 3 added, got %v", got)
	}
	if got := testutil.ToFloat64(m.ArticlesSkipped); got != 5 {
		t.Fatalf("expected 5 skipped, got %v", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics
	m.ObserveIngestion("rss", "failed", 0, 0)
	m.IncUsersCreated()
	m.IncLoginFailures()
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(reg)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	metrics.New(reg)
}
