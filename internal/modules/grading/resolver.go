package grading

import (
	"bytes"
	"encoding/json"

	types "github.com/yungbote/lingua-backend/internal/domain"
)

// Resolver produces a task's answer key, preferring the precomputed validation data and
// filling gaps from the public payload.
type Resolver struct {
	reg *Registry
}

func NewResolver(reg *Registry) *Resolver {
	return &Resolver{reg: reg}
}

// Resolve returns the gradable key for task. Unknown types yield *UnsupportedTaskTypeError;
// keys that cannot be completed yield *ValidationDataError.
func (r *Resolver) Resolve(task *types.LessonTask) (ValidationData, PublicData, Strategy, error) {
	if task == nil {
		return ValidationData{}, nil, nil, ErrTaskNotFound
	}
	strategy, canonical, ok := r.reg.Lookup(task.Type)
	if !ok {
		return ValidationData{}, nil, nil, &UnsupportedTaskTypeError{TaskRef: task.Ref, Type: task.Type}
	}
	public := parsePublic(task.PublicData)

	var stored ValidationData
	if raw := bytes.TrimSpace(task.ValidationData); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		if err := json.Unmarshal(raw, &stored); err != nil {
			return ValidationData{}, nil, nil, &ValidationDataError{TaskRef: task.Ref, Type: canonical, Reason: "stored validation data is not valid JSON"}
		}
	}
	data := merge(stored.withoutBlankText(), strategy.Derive(public).withoutBlankText())
	if reason := strategy.Missing(data); reason != "" {
		return ValidationData{}, nil, nil, &ValidationDataError{TaskRef: task.Ref, Type: canonical, Reason: reason}
	}
	return data, public, strategy, nil
}

// merge keeps every populated field of primary and takes the rest from fallback.
func merge(primary, fallback ValidationData) ValidationData {
	out := primary
	if len(out.Options) == 0 {
		out.Options = fallback.Options
	}
	if out.CorrectIndex == nil {
		out.CorrectIndex = fallback.CorrectIndex
	}
	if out.Answer == "" {
		out.Answer = fallback.Answer
	}
	if len(out.Alternatives) == 0 {
		out.Alternatives = fallback.Alternatives
	}
	if out.CaseSensitive == nil {
		out.CaseSensitive = fallback.CaseSensitive
	}
	if len(out.Tokens) == 0 {
		out.Tokens = fallback.Tokens
	}
	if len(out.Expected) == 0 {
		out.Expected = fallback.Expected
	}
	if out.Target == "" {
		out.Target = fallback.Target
	}
	if len(out.Pairs) == 0 {
		out.Pairs = fallback.Pairs
	}
	if out.Back == "" {
		out.Back = fallback.Back
	}
	return out
}
