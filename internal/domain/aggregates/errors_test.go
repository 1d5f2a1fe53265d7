package aggregates

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatAndUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(CodeRetryable, "Learning.Progress.RecordAttempt", cause)
	if got := err.Error(); got != "Learning.Progress.RecordAttempt: disk full [retryable]" {
		t.Fatalf("unexpected message: %q", got)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause must be reachable")
	}
	var ae *Error
	if !errors.As(fmt.Errorf("outer: %w", err), &ae) || !ae.Temporary() {
		t.Fatalf("expected temporary aggregate error, got %v", err)
	}
	if got := NewError(CodeConflict, "", "", nil).Error(); got != "[conflict]" {
		t.Fatalf("bare code message: %q", got)
	}
}

func TestCodeHelpers(t *testing.T) {
	if Wrap(CodeInternal, "op", nil) != nil {
		t.Fatalf("Wrap(nil) must be nil")
	}
	if CodeOf(errors.New("plain")) != "" || IsCode(errors.New("plain"), "") {
		t.Fatalf("plain errors carry no code")
	}
	err := fmt.Errorf("ctx: %w", NewError(CodeValidation, "op", "bad score", nil))
	if !IsCode(err, CodeValidation) || IsCode(err, CodeConflict) {
		t.Fatalf("unexpected code for %v", err)
	}
}

func TestProgressContract(t *testing.T) {
	c := ProgressAggregateContract
	if !c.RequiresAggregateOwnedTx() {
		t.Fatalf("progress writes own their transaction")
	}
	for _, table := range []string{"lesson_attempt", "xp_ledger_entry", "user_daily_stat", "learner", "lesson_progress"} {
		if !c.Writes(table) {
			t.Fatalf("contract must list %s", table)
		}
	}
	if c.Writes("lesson") {
		t.Fatalf("content tables are read-only to the aggregate")
	}
}
