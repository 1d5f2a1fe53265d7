package progress

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/lingua-backend/internal/data/content"
	"github.com/yungbote/lingua-backend/internal/data/repos"
	types "github.com/yungbote/lingua-backend/internal/domain"
	domainagg "github.com/yungbote/lingua-backend/internal/domain/aggregates"
	"github.com/yungbote/lingua-backend/internal/modules/grading"
	"github.com/yungbote/lingua-backend/internal/platform/dbctx"
	"github.com/yungbote/lingua-backend/internal/platform/logger"
)

var tracer = otel.Tracer("github.com/yungbote/lingua-backend/internal/modules/progress")

// AttemptObserver counts attempts answered without reaching the aggregate.
type AttemptObserver interface {
	IncAttempt(outcome string)
}

type noopObserver struct{}

func (noopObserver) IncAttempt(string) {}

type UsecasesDeps struct {
	Log       *logger.Logger
	Content   content.Source
	Validator *grading.Validator
	Aggregate domainagg.ProgressAggregate

	Learners   repos.LearnerRepo
	Progress   repos.LessonProgressRepo
	Attempts   repos.LessonAttemptRepo
	XP         repos.XPLedgerRepo
	DailyStats repos.DailyStatRepo

	Observer AttemptObserver
	Now      func() time.Time
}

type Usecases struct {
	deps UsecasesDeps
	gate *Gate
	log  *logger.Logger
}

func New(deps UsecasesDeps) Usecases {
	if deps.Log == nil {
		deps.Log = logger.NewNop()
	}
	if deps.Now == nil {
		deps.Now = func() time.Time { return time.Now().UTC() }
	}
	if deps.Observer == nil {
		deps.Observer = noopObserver{}
	}
	if deps.Validator == nil {
		deps.Validator = grading.NewValidator(grading.ValidatorDeps{Content: deps.Content, Log: deps.Log})
	}
	return Usecases{
		deps: deps,
		gate: NewGate(deps.Content, deps.Progress),
		log:  deps.Log.With("service", "ProgressUsecases"),
	}
}

// RecordAttemptInput is the trusted record path: the verdict and score come from the caller.
type RecordAttemptInput struct {
	UserID           uuid.UUID
	LessonRef        string
	TaskRef          string
	IsCorrect        bool
	Score            *float64
	DurationMs       *int64
	VariantKey       string
	SessionID        string
	IdempotencyToken string
	IsLastTask       bool
	LastTaskIndex    *int
	UserAnswer       string
	CorrectAnswer    string
	// Timezone seeds the learner's stored zone on first activity.
	Timezone string
}

type RecordAttemptResult struct {
	Attempt          *types.LessonAttempt `json:"attempt"`
	Replayed         bool                 `json:"replayed"`
	LessonCompleted  bool                 `json:"lesson_completed"`
	XPAwarded        int                  `json:"xp_awarded"`
	Streak           types.StreakState    `json:"streak"`
	MilestoneReached int                  `json:"milestone_reached,omitempty"`
}

func (u Usecases) RecordAttempt(ctx context.Context, in RecordAttemptInput) (RecordAttemptResult, error) {
	ctx, span := tracer.Start(ctx, "progress.RecordAttempt")
	defer span.End()

	if err := normalizeRecordInput(&in); err != nil {
		return RecordAttemptResult{}, spanErr(span, err)
	}
	lesson, err := u.loadLesson(ctx, in.LessonRef)
	if err != nil {
		return RecordAttemptResult{}, spanErr(span, err)
	}
	out, err := u.record(ctx, span, lesson, in)
	return out, spanErr(span, err)
}

type SubmitInput struct {
	UserID           uuid.UUID
	LessonRef        string
	TaskRef          string
	Answer           string
	DurationMs       *int64
	VariantKey       string
	SessionID        string
	IdempotencyToken string
	IsLastTask       bool
	LastTaskIndex    *int
	Timezone         string
}

type SubmitResult struct {
	Result grading.Result `json:"result"`
	RecordAttemptResult
}

// Submit grades answer on the server and records the attempt with that verdict.
func (u Usecases) Submit(ctx context.Context, in SubmitInput) (SubmitResult, error) {
	ctx, span := tracer.Start(ctx, "progress.Submit")
	defer span.End()

	rec := RecordAttemptInput{
		UserID:           in.UserID,
		LessonRef:        in.LessonRef,
		TaskRef:          in.TaskRef,
		DurationMs:       in.DurationMs,
		VariantKey:       in.VariantKey,
		SessionID:        in.SessionID,
		IdempotencyToken: in.IdempotencyToken,
		IsLastTask:       in.IsLastTask,
		LastTaskIndex:    in.LastTaskIndex,
		UserAnswer:       in.Answer,
		Timezone:         in.Timezone,
	}
	if err := normalizeRecordInput(&rec); err != nil {
		return SubmitResult{}, spanErr(span, err)
	}
	lesson, err := u.loadLesson(ctx, rec.LessonRef)
	if err != nil {
		return SubmitResult{}, spanErr(span, err)
	}
	res, _, _, err := u.deps.Validator.Grade(lesson, rec.TaskRef, in.Answer)
	if err != nil {
		return SubmitResult{}, spanErr(span, err)
	}
	score := res.Score
	rec.IsCorrect = res.IsCorrect
	rec.Score = &score
	rec.CorrectAnswer = res.CorrectAnswer

	out, err := u.record(ctx, span, lesson, rec)
	if err != nil {
		return SubmitResult{}, spanErr(span, err)
	}
	if out.Replayed && out.Attempt != nil {
		// The stored verdict is authoritative for a replay.
		res.IsCorrect = out.Attempt.Correct
		res.Score = out.Attempt.Score
		res.CorrectAnswer = out.Attempt.CorrectAnswer
	}
	return SubmitResult{Result: res, RecordAttemptResult: out}, nil
}

// CanStart reports whether userID may start lessonRef.
func (u Usecases) CanStart(ctx context.Context, userID uuid.UUID, lessonRef string) (GateDecision, error) {
	if userID == uuid.Nil {
		return GateDecision{}, ErrMissingUser
	}
	return u.gate.CanStart(ctx, userID, lessonRef)
}

func (u Usecases) loadLesson(ctx context.Context, ref string) (*types.Lesson, error) {
	lesson, err := u.deps.Content.GetLessonByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}
	return lesson, nil
}

// record runs the gate, the replay check and the completion-claim check, then hands the
// write to the aggregate. Nothing is written when any check fails.
func (u Usecases) record(ctx context.Context, span trace.Span, lesson *types.Lesson, in RecordAttemptInput) (RecordAttemptResult, error) {
	span.SetAttributes(
		attribute.String("lesson.ref", lesson.Ref),
		attribute.String("task.ref", in.TaskRef),
		attribute.Bool("attempt.last_task_claim", in.IsLastTask),
	)

	decision, err := u.gate.Check(ctx, in.UserID, lesson)
	if err != nil {
		return RecordAttemptResult{}, err
	}
	if !decision.CanStart {
		return RecordAttemptResult{}, &PrerequisiteError{LessonRef: lesson.Ref, RequiredLessonRef: decision.RequiredLesson}
	}

	if in.IdempotencyToken != "" {
		prior, err := u.deps.Attempts.GetByIdempotencyToken(dbctx.Context{Ctx: ctx}, in.UserID, in.TaskRef, in.IdempotencyToken)
		if err != nil {
			return RecordAttemptResult{}, err
		}
		if prior != nil {
			span.SetAttributes(attribute.Bool("attempt.replayed", true))
			u.deps.Observer.IncAttempt("replayed")
			u.log.Debug("attempt replayed", "user_id", in.UserID, "lesson_ref", lesson.Ref, "task_ref", in.TaskRef, "idempotency_token", in.IdempotencyToken)
			return RecordAttemptResult{Attempt: prior, Replayed: true}, nil
		}
	}

	task, idx, ok := lesson.TaskByRef(in.TaskRef)
	if !ok {
		return RecordAttemptResult{}, ErrTaskNotFound
	}
	if in.IsLastTask {
		last, lastIdx, ok := lesson.LastTask()
		if !ok || last.Ref != task.Ref {
			return RecordAttemptResult{}, invalidClaim("task %q is not the last task of %q", task.Ref, lesson.Ref)
		}
		if in.LastTaskIndex != nil && *in.LastTaskIndex != lastIdx {
			return RecordAttemptResult{}, invalidClaim("last task index is %d, claimed %d", lastIdx, *in.LastTaskIndex)
		}
	}

	var score float64
	if in.Score != nil {
		score = *in.Score
	}
	res, err := u.deps.Aggregate.RecordAttempt(ctx, domainagg.RecordProgressAttemptInput{
		UserID:           in.UserID,
		LessonRef:        lesson.Ref,
		ModuleRef:        types.ModuleRefOf(lesson.Ref),
		TaskRef:          task.Ref,
		TaskIndex:        idx,
		Correct:          in.IsCorrect,
		Score:            score,
		DurationMs:       in.DurationMs,
		VariantKey:       in.VariantKey,
		SessionID:        in.SessionID,
		IdempotencyToken: in.IdempotencyToken,
		UserAnswer:       in.UserAnswer,
		CorrectAnswer:    in.CorrectAnswer,
		Complete:         in.IsLastTask,
		Timezone:         in.Timezone,
		At:               u.deps.Now(),
	})
	if err != nil {
		return RecordAttemptResult{}, err
	}

	out := RecordAttemptResult{
		Attempt:          res.Attempt,
		Replayed:         res.Replayed,
		LessonCompleted:  res.Completed,
		XPAwarded:        res.XPAwarded,
		Streak:           res.Streak,
		MilestoneReached: res.MilestoneReached,
	}
	if !res.Replayed {
		u.log.Info("attempt recorded",
			"user_id", in.UserID,
			"lesson_ref", lesson.Ref,
			"task_ref", task.Ref,
			"attempt_no", res.Attempt.AttemptNo,
			"correct", in.IsCorrect,
			"lesson_completed", res.Completed,
			"xp_awarded", res.XPAwarded,
		)
	}
	return out, nil
}

func normalizeRecordInput(in *RecordAttemptInput) error {
	in.LessonRef = strings.TrimSpace(in.LessonRef)
	in.TaskRef = strings.TrimSpace(in.TaskRef)
	in.IdempotencyToken = strings.TrimSpace(in.IdempotencyToken)
	in.SessionID = strings.TrimSpace(in.SessionID)
	in.VariantKey = strings.TrimSpace(in.VariantKey)
	if in.UserID == uuid.Nil {
		return ErrMissingUser
	}
	if in.LessonRef == "" {
		return invalidInput("lesson_ref is required")
	}
	if in.TaskRef == "" {
		return invalidInput("task_ref is required")
	}
	if in.Score != nil && (*in.Score < 0 || *in.Score > 1) {
		return invalidInput("score must be within [0, 1]")
	}
	if in.DurationMs != nil && *in.DurationMs < 0 {
		return invalidInput("duration_ms must be >= 0")
	}
	if len(in.IdempotencyToken) > 200 {
		return invalidInput("idempotency token is too long")
	}
	return nil
}

func spanErr(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
