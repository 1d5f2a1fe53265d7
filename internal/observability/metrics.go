package observability

import (
	"sync"
	"time"

	"github.com/yungbote/lingua-backend/internal/platform/envutil"
	"github.com/yungbote/lingua-backend/internal/platform/logger"
)

// Metrics is the process metrics registry rendered in the Prometheus text format.
type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	gradesTotal   *CounterVec
	gradeErrors   *CounterVec
	attemptsTotal *CounterVec
	xpAwarded     *CounterVec

	aggregateOps       *HistogramVec
	aggregateConflicts *CounterVec
	aggregateRetries   *CounterVec

	dbStats   *GaugeVec
	redisUp   *Gauge
	redisPing *Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Enabled reports METRICS_ENABLED.
func Enabled() bool { return envutil.Bool("METRICS_ENABLED", false) }

// Init returns the process-wide metrics registry, or nil when METRICS_ENABLED is off.
// Every Metrics method is a no-op on a nil receiver.
func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = New()
		if log != nil {
			log.Info("metrics enabled")
		}
	})
	return instance
}

// New builds an unregistered metrics set.
func New() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("lingua_api_requests_total", "API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"lingua_api_request_duration_seconds",
			"API request latency in seconds by method/route.",
			[]string{"method", "route"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		apiInflight: NewGauge("lingua_api_inflight_requests", "In-flight API requests."),

		gradesTotal:   NewCounterVec("lingua_answers_graded_total", "Graded answers by canonical task type and verdict.", []string{"task_type", "verdict"}),
		gradeErrors:   NewCounterVec("lingua_grading_errors_total", "Grading failures by error kind.", []string{"kind"}),
		attemptsTotal: NewCounterVec("lingua_attempts_total", "Attempt submissions by outcome (recorded, replayed).", []string{"outcome"}),
		xpAwarded:     NewCounterVec("lingua_xp_awarded_total", "XP granted by ledger source.", []string{"source"}),

		aggregateOps: NewHistogramVec(
			"lingua_aggregate_operation_duration_seconds",
			"Aggregate write latency by operation/status.",
			[]string{"op", "status"},
			nil,
		),
		aggregateConflicts: NewCounterVec("lingua_aggregate_conflicts_total", "Aggregate writes that failed with a conflict.", []string{"op"}),
		aggregateRetries:   NewCounterVec("lingua_aggregate_retryable_total", "Aggregate writes that failed with a retryable error.", []string{"op"}),

		dbStats:   NewGaugeVec("lingua_db_pool", "database/sql pool statistics.", []string{"stat"}),
		redisUp:   NewGauge("lingua_redis_up", "1 when the last redis ping succeeded."),
		redisPing: NewGauge("lingua_redis_ping_seconds", "Latency of the last redis ping."),
	}
}

func (m *Metrics) series() []promWriter {
	return []promWriter{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.gradesTotal, m.gradeErrors, m.attemptsTotal, m.xpAwarded,
		m.aggregateOps, m.aggregateConflicts, m.aggregateRetries,
		m.dbStats, m.redisUp, m.redisPing,
	}
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unmatched"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Add(1)
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Add(-1)
}

func (m *Metrics) ObserveGrade(taskType string, correct bool) {
	if m == nil {
		return
	}
	verdict := "incorrect"
	if correct {
		verdict = "correct"
	}
	m.gradesTotal.Inc(taskType, verdict)
}

func (m *Metrics) IncGradeError(kind string) {
	if m == nil {
		return
	}
	m.gradeErrors.Inc(kind)
}

func (m *Metrics) IncAttempt(outcome string) {
	if m == nil {
		return
	}
	m.attemptsTotal.Inc(outcome)
}

func (m *Metrics) AddXPAwarded(source string, delta int) {
	if m == nil || delta <= 0 {
		return
	}
	m.xpAwarded.Add(float64(delta), source)
}

func (m *Metrics) ObserveAggregateOperation(op, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.aggregateOps.Observe(dur.Seconds(), op, status)
}

func (m *Metrics) IncAggregateConflict(op string) {
	if m == nil {
		return
	}
	m.aggregateConflicts.Inc(op)
}

func (m *Metrics) IncAggregateRetry(op string) {
	if m == nil {
		return
	}
	m.aggregateRetries.Inc(op)
}
