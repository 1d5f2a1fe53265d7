package grading

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	types "github.com/yungbote/lingua-backend/internal/domain"
)

type fakeSource struct {
	lessons map[string]*types.Lesson
	err     error
}

func (s fakeSource) GetLessonByRef(_ context.Context, ref string) (*types.Lesson, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.lessons[ref], nil
}

func (s fakeSource) GetLessonByModuleAndOrder(context.Context, string, int) (*types.Lesson, error) {
	return nil, nil
}

type spyGradeHooks struct {
	types  []string
	errors []string
}

func (h *spyGradeHooks) ObserveGrade(taskType string, _ bool) { h.types = append(h.types, taskType) }
func (h *spyGradeHooks) IncGradeError(kind string)            { h.errors = append(h.errors, kind) }

func newTestValidator(hooks Hooks) *Validator {
	lesson := &types.Lesson{
		Ref:       "a1.m1.l1",
		ModuleRef: "a1.m1",
		Order:     1,
		Published: true,
		Tasks: []*types.LessonTask{
			task("t1", "choice", `{"options":["Hello","Bye"],"correctIndex":0,"explanation":"Hello is a greeting."}`, ""),
			task("t2", "gap", `{"prompt":"No answer here"}`, ""),
			task("t3", "essay", `{}`, ""),
			task("t4", "listen", `{"prompt":"Type what you hear"}`, `{"target":"secret transcript"}`),
		},
	}
	return NewValidator(ValidatorDeps{
		Content: fakeSource{lessons: map[string]*types.Lesson{lesson.Ref: lesson}},
		Hooks:   hooks,
	})
}

func TestValidatorValidate(t *testing.T) {
	hooks := &spyGradeHooks{}
	v := newTestValidator(hooks)
	res, err := v.Validate(context.Background(), "a1.m1.l1", "t1", "0")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !res.IsCorrect || res.Score != 1 || res.Explanation != "Hello is a greeting." {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(hooks.types) != 1 || hooks.types[0] != "choice" {
		t.Fatalf("hooks: %+v", hooks.types)
	}
	res, err = v.Validate(context.Background(), "a1.m1.l1", "t4", "Secret transcript")
	if err != nil || !res.IsCorrect {
		t.Fatalf("listen alias: res=%+v err=%v", res, err)
	}
}

func TestValidatorErrors(t *testing.T) {
	hooks := &spyGradeHooks{}
	v := newTestValidator(hooks)
	ctx := context.Background()

	if _, err := v.Validate(ctx, "a1.m1.l9", "t1", "0"); !errors.Is(err, ErrLessonNotFound) {
		t.Fatalf("missing lesson: %v", err)
	}
	if _, err := v.Validate(ctx, "a1.m1.l1", "t9", "0"); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("missing task: %v", err)
	}
	var vde *ValidationDataError
	if _, err := v.Validate(ctx, "a1.m1.l1", "t2", "x"); !errors.As(err, &vde) {
		t.Fatalf("missing validation data: %v", err)
	}
	var ute *UnsupportedTaskTypeError
	if _, err := v.Validate(ctx, "a1.m1.l1", "t3", "x"); !errors.As(err, &ute) {
		t.Fatalf("unsupported type: %v", err)
	}

	if len(hooks.errors) != 2 || hooks.errors[0] != "validation_data_missing" || hooks.errors[1] != "unsupported_task_type" {
		t.Fatalf("grade error kinds: %+v", hooks.errors)
	}

	boom := errors.New("store down")
	broken := NewValidator(ValidatorDeps{Content: fakeSource{err: boom}})
	if _, err := broken.Validate(ctx, "a1.m1.l1", "t1", "0"); !errors.Is(err, boom) {
		t.Fatalf("source errors propagate: %v", err)
	}
}

func TestValidatorResultNeverLeaksValidationData(t *testing.T) {
	v := newTestValidator(nil)
	res, err := v.Validate(context.Background(), "a1.m1.l1", "t4", "wrong")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	raw, _ := json.Marshal(res)
	if strings.Contains(string(raw), "validation") || strings.Contains(string(raw), "target") {
		t.Fatalf("result must not carry the answer key structure: %s", raw)
	}
}
