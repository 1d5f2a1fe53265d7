package learning

import (
	"time"

	"github.com/google/uuid"
)

// LessonAttempt is one immutable, numbered answer to a task. Rows are never updated or deleted.
type LessonAttempt struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index:idx_attempt_seq,unique,priority:1;index:idx_attempt_idem,unique,priority:1" json:"user_id"`
	LessonRef        string    `gorm:"column:lesson_ref;not null;index:idx_attempt_seq,unique,priority:2" json:"lesson_ref"`
	TaskRef          string    `gorm:"column:task_ref;not null;index:idx_attempt_seq,unique,priority:3;index:idx_attempt_idem,unique,priority:2" json:"task_ref"`
	AttemptNo        int       `gorm:"column:attempt_no;not null;index:idx_attempt_seq,unique,priority:4" json:"attempt_no"`
	IdempotencyToken *string   `gorm:"column:idempotency_token;index:idx_attempt_idem,unique,priority:3" json:"idempotency_token,omitempty"`
	Correct          bool      `gorm:"column:correct;not null" json:"correct"`
	Score            float64   `gorm:"column:score;type:double precision;not null" json:"score"`
	DurationMs       *int64    `gorm:"column:duration_ms" json:"duration_ms,omitempty"`
	VariantKey       string    `gorm:"column:variant_key" json:"variant_key,omitempty"`
	SessionID        string    `gorm:"column:session_id" json:"session_id,omitempty"`
	UserAnswer       string    `gorm:"column:user_answer" json:"user_answer"`
	CorrectAnswer    string    `gorm:"column:correct_answer" json:"correct_answer,omitempty"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
}

func (LessonAttempt) TableName() string { return "lesson_attempt" }
