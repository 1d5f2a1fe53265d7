package testutil

import (
	"sync"
	"time"

	"github.com/yungbote/lingua-backend/internal/data/aggregates"
)

// HooksRecorder captures aggregate hook signals in tests. It is safe for concurrent use.
type HooksRecorder struct {
	mu sync.Mutex

	Operations []OperationEvent
	Conflicts  []string
	Retries    []string
	Attempts   map[string]int
	XP         map[string]int
}

type OperationEvent struct {
	Name     string
	Status   string
	Duration time.Duration
}

var _ aggregates.Hooks = (*HooksRecorder)(nil)

func (h *HooksRecorder) ObserveOperation(name, status string, dur time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Operations = append(h.Operations, OperationEvent{Name: name, Status: status, Duration: dur})
}

func (h *HooksRecorder) IncConflict(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Conflicts = append(h.Conflicts, name)
}

func (h *HooksRecorder) IncRetry(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Retries = append(h.Retries, name)
}

func (h *HooksRecorder) ObserveAttempt(outcome string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.Attempts == nil {
		h.Attempts = map[string]int{}
	}
	h.Attempts[outcome]++
}

func (h *HooksRecorder) ObserveXP(source string, delta int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.XP == nil {
		h.XP = map[string]int{}
	}
	h.XP[source] += delta
}

// AttemptCount returns how many attempts were reported with outcome.
func (h *HooksRecorder) AttemptCount(outcome string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Attempts[outcome]
}
