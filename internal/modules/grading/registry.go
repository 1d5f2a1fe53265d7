package grading

import (
	"fmt"
	"sort"
	"sync"
)

// Strategy grades one canonical task type. Derive extracts an answer key from the public
// payload when no precomputed key exists; Missing names what a key lacks to be gradable.
type Strategy interface {
	Derive(public PublicData) ValidationData
	Missing(data ValidationData) string
	Validate(answer string, data ValidationData, public PublicData) Result
}

type Registry struct {
	mu         sync.RWMutex
	strategies map[TaskType]Strategy
}

func NewRegistry() *Registry {
	return &Registry{strategies: map[TaskType]Strategy{}}
}

// DefaultRegistry registers every built-in task type.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	choice := choiceStrategy{}
	listening := listeningStrategy{}
	r.MustRegister(TypeChoice, choice)
	r.MustRegister(TypeMultipleChoice, choice)
	r.MustRegister(TypeGap, gapStrategy{})
	r.MustRegister(TypeOrder, orderStrategy{})
	r.MustRegister(TypeTranslate, translateStrategy{})
	r.MustRegister(TypeListening, listening)
	r.MustRegister(TypeSpeak, listening)
	r.MustRegister(TypeMatching, matchingStrategy{})
	r.MustRegister(TypeFlashcard, flashcardStrategy{})
	return r
}

func (r *Registry) Register(t TaskType, s Strategy) error {
	if s == nil {
		return fmt.Errorf("nil strategy for %q", t)
	}
	t = Canonical(string(t))
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.strategies[t]; dup {
		return fmt.Errorf("strategy already registered for %q", t)
	}
	r.strategies[t] = s
	return nil
}

func (r *Registry) MustRegister(t TaskType, s Strategy) {
	if err := r.Register(t, s); err != nil {
		panic(err)
	}
}

// Lookup resolves aliases before looking up raw.
func (r *Registry) Lookup(raw string) (Strategy, TaskType, bool) {
	t := Canonical(raw)
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[t]
	return s, t, ok
}

func (r *Registry) Types() []TaskType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]TaskType, 0, len(r.strategies))
	for t := range r.strategies {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
