package aggregates

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/lingua-backend/internal/data/repos"
	types "github.com/yungbote/lingua-backend/internal/domain"
	domainagg "github.com/yungbote/lingua-backend/internal/domain/aggregates"
	"github.com/yungbote/lingua-backend/internal/domain/learning"
	"github.com/yungbote/lingua-backend/internal/platform/dbctx"
)

type ProgressAggregateDeps struct {
	Base BaseDeps

	Learners   repos.LearnerRepo
	Progress   repos.LessonProgressRepo
	Attempts   repos.LessonAttemptRepo
	XP         repos.XPLedgerRepo
	DailyStats repos.DailyStatRepo
	Rules      types.XPRules
}

type progressAggregate struct {
	deps ProgressAggregateDeps
}

func NewProgressAggregate(deps ProgressAggregateDeps) domainagg.ProgressAggregate {
	deps.Base = deps.Base.withDefaults()
	return &progressAggregate{deps: deps}
}

func (a *progressAggregate) Contract() domainagg.Contract {
	return domainagg.ProgressAggregateContract
}

func (a *progressAggregate) RecordAttempt(ctx context.Context, in domainagg.RecordProgressAttemptInput) (domainagg.RecordProgressAttemptResult, error) {
	const op = "Learning.Progress.RecordAttempt"
	var out domainagg.RecordProgressAttemptResult

	in.LessonRef = strings.TrimSpace(in.LessonRef)
	in.TaskRef = strings.TrimSpace(in.TaskRef)
	in.IdempotencyToken = strings.TrimSpace(in.IdempotencyToken)
	if in.UserID == uuid.Nil || in.LessonRef == "" || in.TaskRef == "" {
		return out, MapError(op, ValidationError("user_id, lesson_ref and task_ref are required"))
	}
	if in.Score < 0 || in.Score > 1 {
		return out, MapError(op, ValidationError("score must be within [0, 1]"))
	}
	if in.DurationMs != nil && *in.DurationMs < 0 {
		return out, MapError(op, ValidationError("duration_ms must be >= 0"))
	}
	if in.ModuleRef == "" {
		in.ModuleRef = types.ModuleRefOf(in.LessonRef)
	}
	at := in.At
	if at.IsZero() {
		at = a.deps.Base.Now()
	}
	at = at.UTC()

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		res, err := a.recordInTx(dbc, in, at)
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return domainagg.RecordProgressAttemptResult{}, err
	}

	hooks := a.deps.Base.Hooks
	if out.Replayed {
		hooks.ObserveAttempt("replayed")
		return out, nil
	}
	hooks.ObserveAttempt("recorded")
	for _, e := range out.Ledger {
		hooks.ObserveXP(e.Source, e.Delta)
	}
	return out, nil
}

func (a *progressAggregate) recordInTx(dbc dbctx.Context, in domainagg.RecordProgressAttemptInput, at time.Time) (domainagg.RecordProgressAttemptResult, error) {
	var out domainagg.RecordProgressAttemptResult

	// The learner row lock serializes every progress write of one user, which keeps
	// attempt numbering gapless and the streak read-modify-write safe.
	if err := a.deps.Learners.EnsureCreated(dbc, in.UserID, in.Timezone); err != nil {
		return out, err
	}
	learner, err := a.deps.Learners.LockByID(dbc, in.UserID)
	if err != nil {
		return out, err
	}
	streak := types.StreakState{
		Current:          learner.StreakCurrent,
		Longest:          learner.StreakLongest,
		LastActiveDayKey: learner.StreakLastDayKey,
	}
	out.Streak = streak
	out.DayKey = learning.DayKey(at, learner.Timezone)

	if in.IdempotencyToken != "" {
		prior, err := a.deps.Attempts.GetByIdempotencyToken(dbc, in.UserID, in.TaskRef, in.IdempotencyToken)
		if err != nil {
			return out, err
		}
		if prior != nil {
			out.Attempt = prior
			out.Replayed = true
			return out, nil
		}
	}

	if _, err := a.deps.Progress.EnsureCreated(dbc, &types.LessonProgress{
		UserID:    in.UserID,
		LessonRef: in.LessonRef,
		ModuleRef: in.ModuleRef,
		Status:    types.LessonStatusInProgress,
		StartedAt: at,
	}); err != nil {
		return out, err
	}
	progress, err := a.deps.Progress.LockByUserAndLesson(dbc, in.UserID, in.LessonRef)
	if err != nil {
		return out, err
	}
	var durationMs int64
	if in.DurationMs != nil {
		durationMs = *in.DurationMs
	}
	if err := a.deps.Progress.ApplyAttempt(dbc, progress.ID, in.Score, durationMs, in.TaskIndex); err != nil {
		return out, err
	}

	maxNo, err := a.deps.Attempts.MaxAttemptNo(dbc, in.UserID, in.LessonRef, in.TaskRef)
	if err != nil {
		return out, err
	}
	attempt := &types.LessonAttempt{
		UserID:        in.UserID,
		LessonRef:     in.LessonRef,
		TaskRef:       in.TaskRef,
		AttemptNo:     maxNo + 1,
		Correct:       in.Correct,
		Score:         in.Score,
		DurationMs:    in.DurationMs,
		VariantKey:    in.VariantKey,
		SessionID:     in.SessionID,
		UserAnswer:    in.UserAnswer,
		CorrectAnswer: in.CorrectAnswer,
		CreatedAt:     at,
	}
	if in.IdempotencyToken != "" {
		token := in.IdempotencyToken
		attempt.IdempotencyToken = &token
	}
	if attempt, err = a.deps.Attempts.Create(dbc, attempt); err != nil {
		return out, err
	}
	out.Attempt = attempt

	rules := a.deps.Rules
	var ledger []*types.XPLedgerEntry
	grant := func(source, ref string, delta int, meta map[string]any) {
		if delta <= 0 {
			return
		}
		ledger = append(ledger, &types.XPLedgerEntry{
			UserID:    in.UserID,
			Delta:     delta,
			Source:    source,
			Ref:       ref,
			SessionID: in.SessionID,
			Meta:      ledgerMeta(meta),
			CreatedAt: at,
		})
	}
	if in.Correct {
		grant(types.XPSourceTask, in.TaskRef, rules.TaskXP, map[string]any{
			"lesson_ref": in.LessonRef,
			"attempt_id": attempt.ID.String(),
		})
	}

	lessonsCompleted := 0
	if in.Complete {
		ok, err := a.deps.Base.CASGuard.Apply(dbc, Transition{
			Table: "lesson_progress",
			ID:    progress.ID,
			From:  []string{types.LessonStatusNotStarted, types.LessonStatusInProgress},
			To:    types.LessonStatusCompleted,
			Set:   map[string]any{"completed_at": at, "updated_at": at},
		})
		if err != nil {
			return out, err
		}
		if ok {
			out.Completed = true
			lessonsCompleted = 1
			grant(types.XPSourceLessonComplete, in.LessonRef, rules.LessonCompleteXP, map[string]any{
				"module_ref": in.ModuleRef,
			})
		}

		next, changed := learning.NextStreak(streak, at, learner.Timezone)
		if changed {
			if err := a.deps.Learners.UpdateStreak(dbc, in.UserID, next); err != nil {
				return out, err
			}
			out.Streak = next
			out.StreakChanged = true
			if bonus, hit := rules.MilestoneBonus(next.Current); hit {
				out.MilestoneReached = next.Current
				grant(types.XPSourceStreakBonus, out.DayKey, bonus, map[string]any{
					"streak": next.Current,
				})
			}
		}
	}

	if len(ledger) > 0 {
		if _, err := a.deps.XP.Create(dbc, ledger); err != nil {
			return out, err
		}
		total := 0
		for _, e := range ledger {
			total += e.Delta
		}
		if err := a.deps.Learners.AddXP(dbc, in.UserID, total); err != nil {
			return out, err
		}
		out.XPAwarded = total
	}
	out.Ledger = ledger

	if err := a.deps.DailyStats.Increment(dbc, in.UserID, out.DayKey, repos.DailyStatDelta{
		XPEarned:         out.XPAwarded,
		TasksCompleted:   1,
		LessonsCompleted: lessonsCompleted,
	}); err != nil {
		return out, err
	}
	return out, nil
}

func ledgerMeta(m map[string]any) datatypes.JSON {
	if len(m) == 0 {
		return nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
