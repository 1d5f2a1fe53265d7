package observability

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// Minimal Prometheus text exposition. Series are emitted in sorted label order so two
// scrapes of an idle process are byte-identical.

type promWriter interface {
	WritePrometheus(w io.Writer) error
}

// family is the shared name/help/labels header of every metric kind.
type family struct {
	name   string
	help   string
	kind   string
	labels []string
}

func (f family) header(w io.Writer) error {
	_, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n", f.name, f.help, f.name, f.kind)
	return err
}

// key renders the label set for values. Missing or empty values become "unknown".
func (f family) key(values []string) string {
	if len(f.labels) == 0 {
		return ""
	}
	pairs := make([]string, len(f.labels))
	for i, name := range f.labels {
		val := "unknown"
		if i < len(values) && values[i] != "" {
			val = values[i]
		}
		pairs[i] = name + `="` + escapeLabel(val) + `"`
	}
	return "{" + strings.Join(pairs, ",") + "}"
}

// scalarSeries stores one float per label set. Counters and gauges share it.
type scalarSeries struct {
	family
	mu     sync.RWMutex
	values map[string]float64
}

func newScalarSeries(name, help, kind string, labels []string) *scalarSeries {
	return &scalarSeries{family: family{name: name, help: help, kind: kind, labels: labels}, values: map[string]float64{}}
}

func (s *scalarSeries) apply(values []string, fn func(float64) float64) {
	k := s.key(values)
	s.mu.Lock()
	s.values[k] = fn(s.values[k])
	s.mu.Unlock()
}

func (s *scalarSeries) get(values []string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[s.key(values)]
}

func (s *scalarSeries) WritePrometheus(w io.Writer) error {
	if err := s.header(w); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, k := range sortedKeys(s.values) {
		if _, err := fmt.Fprintf(w, "%s%s %f\n", s.name, k, s.values[k]); err != nil {
			return err
		}
	}
	return nil
}

type CounterVec struct{ s *scalarSeries }

func NewCounterVec(name, help string, labels []string) *CounterVec {
	return &CounterVec{s: newScalarSeries(name, help, "counter", labels)}
}

func (c *CounterVec) Inc(values ...string) { c.Add(1, values...) }

func (c *CounterVec) Add(v float64, values ...string) {
	if c == nil {
		return
	}
	c.s.apply(values, func(cur float64) float64 { return cur + v })
}

// Value returns the current value of one labelled series.
func (c *CounterVec) Value(values ...string) float64 {
	if c == nil {
		return 0
	}
	return c.s.get(values)
}

func (c *CounterVec) WritePrometheus(w io.Writer) error {
	if c == nil {
		return nil
	}
	return c.s.WritePrometheus(w)
}

type GaugeVec struct{ s *scalarSeries }

func NewGaugeVec(name, help string, labels []string) *GaugeVec {
	return &GaugeVec{s: newScalarSeries(name, help, "gauge", labels)}
}

func (g *GaugeVec) Set(v float64, values ...string) {
	if g == nil {
		return
	}
	g.s.apply(values, func(float64) float64 { return v })
}

func (g *GaugeVec) Value(values ...string) float64 {
	if g == nil {
		return 0
	}
	return g.s.get(values)
}

func (g *GaugeVec) WritePrometheus(w io.Writer) error {
	if g == nil {
		return nil
	}
	return g.s.WritePrometheus(w)
}

// Gauge is an unlabelled gauge.
type Gauge struct{ s *scalarSeries }

func NewGauge(name, help string) *Gauge {
	return &Gauge{s: newScalarSeries(name, help, "gauge", nil)}
}

func (g *Gauge) Set(v float64) {
	if g == nil {
		return
	}
	g.s.apply(nil, func(float64) float64 { return v })
}

func (g *Gauge) Add(v float64) {
	if g == nil {
		return
	}
	g.s.apply(nil, func(cur float64) float64 { return cur + v })
}

func (g *Gauge) Value() float64 {
	if g == nil {
		return 0
	}
	return g.s.get(nil)
}

func (g *Gauge) WritePrometheus(w io.Writer) error {
	if g == nil {
		return nil
	}
	return g.s.WritePrometheus(w)
}

var defaultBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

type HistogramVec struct {
	family
	bounds []float64
	mu     sync.Mutex
	series map[string]*buckets
}

// buckets holds non-cumulative counts per bound. Rendering accumulates them.
type buckets struct {
	counts []uint64
	sum    float64
	n      uint64
}

func NewHistogramVec(name, help string, labels []string, bounds []float64) *HistogramVec {
	if len(bounds) == 0 {
		bounds = defaultBuckets
	}
	bounds = slices.Clone(bounds)
	slices.Sort(bounds)
	return &HistogramVec{
		family: family{name: name, help: help, kind: "histogram", labels: labels},
		bounds: bounds,
		series: map[string]*buckets{},
	}
}

func (h *HistogramVec) Observe(v float64, values ...string) {
	if h == nil {
		return
	}
	k := h.key(values)
	h.mu.Lock()
	defer h.mu.Unlock()
	b := h.series[k]
	if b == nil {
		b = &buckets{counts: make([]uint64, len(h.bounds))}
		h.series[k] = b
	}
	b.sum += v
	b.n++
	if i, _ := slices.BinarySearch(h.bounds, v); i < len(h.bounds) {
		b.counts[i]++
	}
}

func (h *HistogramVec) WritePrometheus(w io.Writer) error {
	if h == nil {
		return nil
	}
	if err := h.header(w); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, k := range sortedKeys(h.series) {
		b := h.series[k]
		var cum uint64
		for i, bound := range h.bounds {
			cum += b.counts[i]
			if _, err := fmt.Fprintf(w, "%s_bucket%s %d\n", h.name, withLe(k, strconv.FormatFloat(bound, 'g', -1, 64)), cum); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s_bucket%s %d\n%s_sum%s %f\n%s_count%s %d\n",
			h.name, withLe(k, "+Inf"), b.n, h.name, k, b.sum, h.name, k, b.n); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

var labelEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func escapeLabel(v string) string { return labelEscaper.Replace(v) }

func withLe(labels, le string) string {
	le = `le="` + escapeLabel(le) + `"`
	if labels == "" {
		return "{" + le + "}"
	}
	return strings.TrimSuffix(labels, "}") + "," + le + "}"
}
