package progress

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	types "github.com/yungbote/lingua-backend/internal/domain"
	"github.com/yungbote/lingua-backend/internal/domain/learning"
	"github.com/yungbote/lingua-backend/internal/platform/dbctx"
)

func (u Usecases) ListLessonProgress(ctx context.Context, userID uuid.UUID, limit int) ([]*types.LessonProgress, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUser
	}
	return u.deps.Progress.ListByUser(dbctx.Context{Ctx: ctx}, userID, limit)
}

func (u Usecases) ListRecentXP(ctx context.Context, userID uuid.UUID, limit int) ([]*types.XPLedgerEntry, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUser
	}
	return u.deps.XP.ListRecentByUser(dbctx.Context{Ctx: ctx}, userID, limit)
}

func (u Usecases) ListRecentDailyStats(ctx context.Context, userID uuid.UUID, limit int) ([]*types.DailyStat, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUser
	}
	return u.deps.DailyStats.ListRecentByUser(dbctx.Context{Ctx: ctx}, userID, limit)
}

func (u Usecases) ListLessonAttempts(ctx context.Context, userID uuid.UUID, lessonRef string, limit int) ([]*types.LessonAttempt, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUser
	}
	return u.deps.Attempts.ListByUserAndLesson(dbctx.Context{Ctx: ctx}, userID, strings.TrimSpace(lessonRef), limit)
}

type Summary struct {
	UserID   uuid.UUID         `json:"user_id"`
	Timezone string            `json:"timezone"`
	XPTotal  int64             `json:"xp_total"`
	Streak   types.StreakState `json:"streak"`
	// StreakActive is false once a full day has passed without activity; Streak keeps the
	// stored value until the next honored completion resets it.
	StreakActive     bool                   `json:"streak_active"`
	Today            string                 `json:"today"`
	LessonsCompleted int64                  `json:"lessons_completed"`
	AttemptsTotal    int64                  `json:"attempts_total"`
	RecentXP         []*types.XPLedgerEntry `json:"recent_xp"`
	RecentDays       []*types.DailyStat     `json:"recent_days"`
}

// Summary gathers the learner dashboard in parallel reads. A learner with no activity gets
// a zero summary in UTC.
func (u Usecases) Summary(ctx context.Context, userID uuid.UUID) (Summary, error) {
	if userID == uuid.Nil {
		return Summary{}, ErrMissingUser
	}
	ctx, span := tracer.Start(ctx, "progress.Summary")
	defer span.End()

	out := Summary{UserID: userID, Timezone: "UTC"}
	var learner *types.Learner
	g, gctx := errgroup.WithContext(ctx)
	dbc := dbctx.Context{Ctx: gctx}
	g.Go(func() error {
		var err error
		learner, err = u.deps.Learners.GetByID(dbc, userID)
		return err
	})
	g.Go(func() error {
		var err error
		out.LessonsCompleted, err = u.deps.Progress.CountCompletedByUser(dbc, userID)
		return err
	})
	g.Go(func() error {
		var err error
		out.AttemptsTotal, err = u.deps.Attempts.CountByUser(dbc, userID)
		return err
	})
	g.Go(func() error {
		var err error
		out.RecentXP, err = u.deps.XP.ListRecentByUser(dbc, userID, 10)
		return err
	})
	g.Go(func() error {
		var err error
		out.RecentDays, err = u.deps.DailyStats.ListRecentByUser(dbc, userID, 7)
		return err
	})
	if err := g.Wait(); err != nil {
		return Summary{}, spanErr(span, err)
	}

	if learner != nil {
		out.Timezone = learner.Timezone
		out.XPTotal = learner.XPTotal
		out.Streak = types.StreakState{
			Current:          learner.StreakCurrent,
			Longest:          learner.StreakLongest,
			LastActiveDayKey: learner.StreakLastDayKey,
		}
	}
	out.Today = learning.DayKey(u.deps.Now(), out.Timezone)
	last := out.Streak.LastActiveDayKey
	out.StreakActive = last != "" && (last == out.Today || last == learning.PreviousDayKey(out.Today))
	return out, nil
}

// SetTimezone stores the IANA zone used for the learner's day keys.
func (u Usecases) SetTimezone(ctx context.Context, userID uuid.UUID, tz string) error {
	if userID == uuid.Nil {
		return ErrMissingUser
	}
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return invalidInput("timezone is required")
	}
	if learning.LoadLocation(tz).String() != tz {
		return invalidInput("unknown timezone %q", tz)
	}
	dbc := dbctx.Context{Ctx: ctx}
	if err := u.deps.Learners.EnsureCreated(dbc, userID, tz); err != nil {
		return err
	}
	return u.deps.Learners.SetTimezone(dbc, userID, tz)
}
