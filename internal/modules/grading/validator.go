package grading

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/lingua-backend/internal/data/content"
	types "github.com/yungbote/lingua-backend/internal/domain"
	"github.com/yungbote/lingua-backend/internal/platform/logger"
)

var tracer = otel.Tracer("github.com/yungbote/lingua-backend/internal/modules/grading")

// Hooks observes grading outcomes.
type Hooks interface {
	ObserveGrade(taskType string, correct bool)
	IncGradeError(kind string)
}

type noopHooks struct{}

func (noopHooks) ObserveGrade(string, bool) {}
func (noopHooks) IncGradeError(string)      {}

type ValidatorDeps struct {
	Content  content.Source
	Registry *Registry
	Log      *logger.Logger
	Hooks    Hooks
}

// Validator grades answers. It never writes state.
type Validator struct {
	content  content.Source
	registry *Registry
	resolver *Resolver
	log      *logger.Logger
	hooks    Hooks
}

func NewValidator(deps ValidatorDeps) *Validator {
	if deps.Registry == nil {
		deps.Registry = DefaultRegistry()
	}
	if deps.Hooks == nil {
		deps.Hooks = noopHooks{}
	}
	if deps.Log == nil {
		deps.Log = logger.NewNop()
	}
	return &Validator{
		content:  deps.Content,
		registry: deps.Registry,
		resolver: NewResolver(deps.Registry),
		log:      deps.Log.With("service", "AnswerValidator"),
		hooks:    deps.Hooks,
	}
}

// Validate loads the published lesson, locates the task and grades answer against it.
func (v *Validator) Validate(ctx context.Context, lessonRef, taskRef, answer string) (Result, error) {
	ctx, span := tracer.Start(ctx, "grading.Validate")
	defer span.End()
	span.SetAttributes(attribute.String("lesson.ref", lessonRef), attribute.String("task.ref", taskRef))

	lesson, err := v.content.GetLessonByRef(ctx, strings.TrimSpace(lessonRef))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load lesson")
		return Result{}, err
	}
	if lesson == nil {
		return Result{}, ErrLessonNotFound
	}
	res, _, _, err := v.Grade(lesson, taskRef, answer)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "grade")
		return Result{}, err
	}
	span.SetAttributes(attribute.Bool("grade.correct", res.IsCorrect))
	return res, nil
}

// Grade grades answer against a lesson the caller already loaded and returns the task with
// its index in the lesson.
func (v *Validator) Grade(lesson *types.Lesson, taskRef, answer string) (Result, *types.LessonTask, int, error) {
	task, idx, ok := lesson.TaskByRef(strings.TrimSpace(taskRef))
	if !ok {
		return Result{}, nil, -1, ErrTaskNotFound
	}
	data, public, strategy, err := v.resolver.Resolve(task)
	if err != nil {
		v.log.Error("task cannot be graded", "lesson_ref", lesson.Ref, "task_ref", task.Ref, "error", err)
		v.hooks.IncGradeError(ErrorKind(err))
		return Result{}, nil, -1, err
	}
	res := strategy.Validate(answer, data, public)
	if res.Score < 0 {
		res.Score = 0
	}
	if res.Score > 1 {
		res.Score = 1
	}
	if res.Explanation == "" {
		res.Explanation = public.Explanation()
	}
	v.hooks.ObserveGrade(string(Canonical(task.Type)), res.IsCorrect)
	return res, task, idx, nil
}
