package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.SnapshotsApplied.WithLabelValues("u1").Inc()
	m.LedgerSize.WithLabelValues("u1").Set(3)
	m.Mutations.WithLabelValues("edit", "success").Inc()
	m.UndoInstalled.Inc()
	m.UndoInvoked.Inc()
	m.UndoExpired.Inc()

	if got := testutil.ToFloat64(m.SnapshotsApplied.WithLabelValues("u1")); got != 1 {
		t.Errorf("expected 1 snapshot applied, got %v", got)
	}
	if got := testutil.ToFloat64(m.LedgerSize.WithLabelValues("u1")); got != 3 {
		t.Errorf("expected ledger size 3, got %v", got)
	}
	if got := testutil.ToFloat64(m.Mutations.WithLabelValues("edit", "success")); got != 1 {
		t.Errorf("expected 1 mutation, got %v", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected metrics to be registered")
	}
}
