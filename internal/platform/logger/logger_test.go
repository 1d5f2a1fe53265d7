package logger

import (
	"strings"
	"testing"
)

func TestScrubberHashesIdentifiersAndDropsAnswers(t *testing.T) {
	s := scrubber{}
	out := s.pairs([]interface{}{
		"user_id", "4c5b",
		"idempotency_token", "retry-1",
		"user_answer", "Passport",
		"lesson_ref", "a1.m1.l1",
		"claim", map[string]interface{}{"session_id": "s-1", "task_ref": "t2"},
	})
	if len(out) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(out))
	}
	for _, i := range []int{1, 3} {
		if v, _ := out[i].(string); !strings.HasPrefix(v, "hash:") {
			t.Fatalf("entry %d should be hashed, got %v", i, out[i])
		}
	}
	if out[5] != redacted {
		t.Fatalf("answer not redacted: %v", out[5])
	}
	if out[7] != "a1.m1.l1" {
		t.Fatalf("lesson_ref changed: %v", out[7])
	}
	nested := out[9].(map[string]interface{})
	if v, _ := nested["session_id"].(string); !strings.HasPrefix(v, "hash:") || nested["task_ref"] != "t2" {
		t.Fatalf("nested map: %v", nested)
	}
}

func TestScrubberHashDependsOnSalt(t *testing.T) {
	a := scrubber{}.hash("k1")
	if a != (scrubber{}).hash("k1") {
		t.Fatalf("hash not stable")
	}
	if a == (scrubber{salt: "pepper"}).hash("k1") {
		t.Fatalf("salt ignored")
	}
}

func TestScrubberLeavesInputAlone(t *testing.T) {
	in := []interface{}{"user_answer", "hola", "dangling"}
	out := scrubber{}.pairs(in)
	if in[1] != "hola" {
		t.Fatalf("input slice mutated")
	}
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("unexpected output: %v", out)
	}
	if got := (scrubber{disabled: true}).pairs(in); got[1] != "hola" {
		t.Fatalf("disabled scrubber should pass through, got %v", got)
	}
}

func TestNewTestModeIsNop(t *testing.T) {
	l, err := New("test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("discarded", "k", "v")
	l.With("repo", "X").Debug("discarded")
}
