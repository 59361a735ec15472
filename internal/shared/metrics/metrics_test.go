package metrics

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderIncludesLabeledCounters(t *testing.T) {
	IncAnalysisStarted("summary")
	IncAnalysisCompleted("summary")
	IncAnalysisFailed("sentiment")
	IncHistoryEvicted("oldest")

	out := Render()
	for _, want := range []string{
		`analysis_started_total{type="summary"}`,
		`analysis_completed_total{type="summary"}`,
		`analysis_failed_total{type="sentiment"}`,
		`history_evicted_total{policy="oldest"}`,
		"# TYPE analysis_duration_ms histogram",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %q:\n%s", want, out)
		}
	}
}

func TestHistogramCumulativeBuckets(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	if snap.count != 3 {
		t.Fatalf("expected count 3, got %d", snap.count)
	}
	if snap.counts[0] != 1 || snap.counts[1] != 1 {
		t.Fatalf("unexpected bucket counts: %v", snap.counts)
	}

	var buf bytes.Buffer
	writeHistogram(&buf, "x", "help", snap)
	out := buf.String()
	if !strings.Contains(out, `x_bucket{le="100"} 2`) {
		t.Fatalf("expected cumulative bucket count 2:\n%s", out)
	}
	if !strings.Contains(out, `x_bucket{le="+Inf"} 3`) {
		t.Fatalf("expected +Inf bucket count 3:\n%s", out)
	}
	if !strings.Contains(out, "x_sum 555") {
		t.Fatalf("expected sum 555:\n%s", out)
	}
}
