package aggregates

import (
	"context"
	"errors"
	"testing"
	"time"

	domainagg "github.com/yungbote/lingua-backend/internal/domain/aggregates"
	"github.com/yungbote/lingua-backend/internal/platform/dbctx"
)

func TestExecuteWriteOutcomes(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		status    string
		conflicts int
		retries   int
	}{
		{name: "success", status: "success"},
		{name: "invariant", err: InvariantError("streak went backwards"), status: string(domainagg.CodeInvariantViolation)},
		{name: "validation", err: ValidationError("score out of range"), status: string(domainagg.CodeValidation)},
		{name: "conflict", err: ConflictError("attempt already numbered"), status: string(domainagg.CodeConflict), conflicts: 1},
		{name: "retryable", err: RetryableError("learner row lock timeout"), status: string(domainagg.CodeRetryable), retries: 1},
		{name: "deadline", err: context.DeadlineExceeded, status: string(domainagg.CodeRetryable), retries: 1},
		{name: "opaque", err: errors.New("boom"), status: string(domainagg.CodeInternal)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hooks := &spyHooks{}
			op := "Learning.Progress.test." + tc.name
			err := executeWrite(context.Background(), BaseDeps{Runner: passThroughRunner{}, Hooks: hooks}, op,
				func(dbctx.Context) error { return tc.err })

			if (tc.err == nil) != (err == nil) {
				t.Fatalf("error mismatch: in=%v out=%v", tc.err, err)
			}
			if tc.err != nil && !domainagg.IsCode(err, domainagg.ErrorCode(tc.status)) {
				t.Fatalf("code: want=%s got=%s (%v)", tc.status, domainagg.CodeOf(err), err)
			}
			if len(hooks.Operations) != 1 || hooks.Operations[0] != (spyOperation{Name: op, Status: tc.status}) {
				t.Fatalf("operations: %+v", hooks.Operations)
			}
			if len(hooks.Conflicts) != tc.conflicts || len(hooks.Retries) != tc.retries {
				t.Fatalf("counters: conflicts=%v retries=%v", hooks.Conflicts, hooks.Retries)
			}
		})
	}
}

func TestExecuteWriteKeepsCause(t *testing.T) {
	cause := errors.New("unique constraint failed: lesson_attempt.attempt_no")
	err := executeWrite(context.Background(), BaseDeps{Runner: passThroughRunner{}}, "op", func(dbctx.Context) error { return cause })
	if !errors.Is(err, cause) || !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict wrapping the driver error, got %v", err)
	}
}

func TestAggregateErrorStatusOfUnmappedErrors(t *testing.T) {
	if got := aggregateErrorStatus(nil); got != "success" {
		t.Fatalf("nil: %s", got)
	}
	if got := aggregateErrorStatus(context.Canceled); got != string(domainagg.CodeRetryable) {
		t.Fatalf("canceled: %s", got)
	}
}

func TestExecuteWriteNilRunnerDBIsInternal(t *testing.T) {
	hooks := &spyHooks{}
	err := executeWrite(context.Background(), BaseDeps{Hooks: hooks}, "", func(_ dbctx.Context) error { return nil })
	if !domainagg.IsCode(err, domainagg.CodeInternal) {
		t.Fatalf("expected internal code, got=%v", err)
	}
	if len(hooks.Operations) != 1 || hooks.Operations[0].Name != "aggregate.write" {
		t.Fatalf("default op name: %+v", hooks.Operations)
	}
}

type passThroughRunner struct{}

func (passThroughRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return fn(dbctx.Context{Ctx: ctx})
}

type spyHooks struct {
	Operations []spyOperation
	Conflicts  []string
	Retries    []string
	Attempts   []string
	XP         map[string]int
}

type spyOperation struct {
	Name   string
	Status string
}

func (h *spyHooks) ObserveOperation(name, status string, _ time.Duration) {
	h.Operations = append(h.Operations, spyOperation{Name: name, Status: status})
}

func (h *spyHooks) IncConflict(name string) { h.Conflicts = append(h.Conflicts, name) }
func (h *spyHooks) IncRetry(name string)    { h.Retries = append(h.Retries, name) }

func (h *spyHooks) ObserveAttempt(outcome string) { h.Attempts = append(h.Attempts, outcome) }

func (h *spyHooks) ObserveXP(source string, delta int) {
	if h.XP == nil {
		h.XP = map[string]int{}
	}
	h.XP[source] += delta
}
