package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestEngineMetricsRegisterAndObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewEngineMetrics(reg)

	m.ObserveTurn("qualification", "question")
	m.ObserveGroundingRewrite()
	m.ObserveExternalRetry("generation")
	m.ObserveTurnDuration("qualification", 0.42)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) != 4 {
		t.Fatalf("expected 4 metric families, got %d", len(families))
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *EngineMetrics
	m.ObserveTurn("closing", "interest")
	m.ObserveGroundingRewrite()
	m.ObserveExternalRetry("retrieval")
	m.ObserveTurnDuration("closing", 0.1)
}
