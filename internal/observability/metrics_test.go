package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestMetricsDomainSeries(t *testing.T) {
	m := New()
	m.ObserveGrade("choice", true)
	m.ObserveGrade("choice", true)
	m.ObserveGrade("gap", false)
	m.IncAttempt("recorded")
	m.IncAttempt("replayed")
	m.AddXPAwarded("task", 10)
	m.AddXPAwarded("task", 0)
	m.ObserveAggregateOperation("Learning.Progress.RecordAttempt", "success", 20*time.Millisecond)
	m.ObserveAPI("POST", "/api/attempts", "201", 30*time.Millisecond)

	if got := m.gradesTotal.Value("choice", "correct"); got != 2 {
		t.Fatalf("grades choice/correct: want=2 got=%v", got)
	}
	if got := m.xpAwarded.Value("task"); got != 10 {
		t.Fatalf("xp task: want=10 got=%v", got)
	}

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`lingua_answers_graded_total{task_type="gap",verdict="incorrect"} 1.000000`,
		`lingua_attempts_total{outcome="replayed"} 1.000000`,
		`lingua_aggregate_operation_duration_seconds_count{op="Learning.Progress.RecordAttempt",status="success"} 1`,
		`lingua_api_request_duration_seconds_bucket{method="POST",route="/api/attempts",le="+Inf"} 1`,
		"# TYPE lingua_api_inflight_requests gauge",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("exposition missing %q:\n%s", want, out)
		}
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.ObserveGrade("choice", true)
	m.IncAttempt("recorded")
	m.ApiInflightInc()
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("nil WritePrometheus: %v", err)
	}
}

func TestLabelEscaping(t *testing.T) {
	got := family{labels: []string{"route", "status"}}.key([]string{`a"b\c`})
	if got != `{route="a\"b\\c",status="unknown"}` {
		t.Fatalf("label key: %s", got)
	}
	if withLe("", "0.5") != `{le="0.5"}` {
		t.Fatalf("withLe on empty labels")
	}
}

func TestOtelDisabledIsNoop(t *testing.T) {
	shutdown := InitOTel(context.Background(), nil, OtelConfig{})
	if shutdown == nil {
		t.Fatalf("shutdown must be non-nil")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if got := (OtelConfig{SampleRatio: 3}).ratio(); got != 1 {
		t.Fatalf("ratio clamp: %v", got)
	}
	if got := (OtelConfig{}).service(); got != "lingua-backend" {
		t.Fatalf("default service: %s", got)
	}
}

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := NewHistogramVec("h", "test histogram", []string{"op"}, []float64{1, 0.1})
	h.Observe(0.05, "x")
	h.Observe(0.1, "x")
	h.Observe(0.5, "x")
	h.Observe(3, "x")

	var buf bytes.Buffer
	if err := h.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	for _, want := range []string{
		`h_bucket{op="x",le="0.1"} 2`,
		`h_bucket{op="x",le="1"} 3`,
		`h_bucket{op="x",le="+Inf"} 4`,
		`h_count{op="x"} 4`,
	} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("missing %q:\n%s", want, buf.String())
		}
	}
}
