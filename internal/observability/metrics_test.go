package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestMetricsExposition(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("POST", "/api/splintering/check", "200", 30*time.Millisecond)
	m.ObserveSplinteringCheck(nil, []string{"VENDOR_SPLINTERING"}, []string{"HIGH"})
	m.ObserveSplinteringCheck(nil, nil, nil)
	m.ObserveSplinteringCheck(errors.New("db down"), nil, nil)
	m.ObserveThresholdCheck("works", "HIGH")
	m.IncCombine("combine", "ok")
	m.AddCombinedValue(1500)

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`procurement_api_requests_total{method="POST",route="/api/splintering/check",status="200"} 1`,
		`procurement_api_request_duration_seconds_bucket{method="POST",route="/api/splintering/check",status="200",le="0.05"} 1`,
		`procurement_splintering_checks_total{outcome="clean"} 1`,
		`procurement_splintering_checks_total{outcome="error"} 1`,
		`procurement_splintering_checks_total{outcome="flagged"} 1`,
		`procurement_splintering_alerts_total{type="VENDOR_SPLINTERING",severity="HIGH"} 1`,
		`procurement_threshold_checks_total{type="works",level="HIGH"} 1`,
		`procurement_combine_total{stage="combine",outcome="ok"} 1`,
		`procurement_combined_value_total 1500`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("exposition missing %q\n%s", want, out)
		}
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", "200", time.Second)
	m.IncCombine("validate", "ok")
	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil || buf.Len() != 0 {
		t.Fatalf("nil metrics: want empty output got=%q err=%v", buf.String(), err)
	}
}

func TestLabelString(t *testing.T) {
	if got := labelString([]string{"a", "b"}, []string{`x"y`}); got != `{a="x\"y",b="unknown"}` {
		t.Fatalf("labelString: got=%s", got)
	}
	if got := withLe("", "+Inf"); got != `{le="+Inf"}` {
		t.Fatalf("withLe: got=%s", got)
	}
}
