package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/lingua-backend/internal/domain/learning"
)

var ProgressAggregateContract = Contract{
	Name:           "Learning.ProgressAggregate",
	TxOwnership:    TxOwnedByAggregate,
	Tables:         []string{"learner", "lesson_progress", "lesson_attempt", "xp_ledger_entry", "user_daily_stat"},
	IdempotencyKey: []string{"user_id", "task_ref", "idempotency_token"},
}

// ProgressAggregate owns every write caused by one answer submission.
//
// Write method failures should return *aggregates.Error with codes:
// CodeValidation, CodeConflict, CodeRetryable, CodeInternal.
type ProgressAggregate interface {
	Aggregate

	// RecordAttempt atomically records the attempt and all of its side effects. A call whose
	// idempotency token was already recorded returns the stored attempt with Replayed set and
	// writes nothing.
	RecordAttempt(ctx context.Context, in RecordProgressAttemptInput) (RecordProgressAttemptResult, error)
}

type RecordProgressAttemptInput struct {
	UserID           uuid.UUID
	LessonRef        string
	ModuleRef        string
	TaskRef          string
	TaskIndex        int
	Correct          bool
	Score            float64
	DurationMs       *int64
	VariantKey       string
	SessionID        string
	IdempotencyToken string
	UserAnswer       string
	CorrectAnswer    string
	// Complete is set only after the caller has verified the task is the lesson's last task.
	Complete bool
	// Timezone seeds a new learner row; existing rows keep their stored zone.
	Timezone string
	At       time.Time
}

type RecordProgressAttemptResult struct {
	Attempt          *learning.LessonAttempt
	Replayed         bool
	Completed        bool
	XPAwarded        int
	Streak           learning.StreakState
	StreakChanged    bool
	MilestoneReached int
	DayKey           string
	// Ledger holds the XP entries written by this call; empty on replay.
	Ledger []*learning.XPLedgerEntry
}
