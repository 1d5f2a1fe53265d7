package learning

import (
	"time"

	"github.com/google/uuid"
)

const (
	LessonStatusNotStarted = "not_started"
	LessonStatusInProgress = "in_progress"
	LessonStatusCompleted  = "completed"
)

// LessonProgress is the per user x lesson aggregate. Score and TimeSpent are derived from the
// running sums and are only ever written by the same statement that bumps the sums.
type LessonProgress struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index:idx_lesson_progress_user_lesson,unique,priority:1" json:"user_id"`
	LessonRef     string     `gorm:"column:lesson_ref;not null;index:idx_lesson_progress_user_lesson,unique,priority:2" json:"lesson_ref"`
	ModuleRef     string     `gorm:"column:module_ref;not null;index" json:"module_ref"`
	Status        string     `gorm:"column:status;not null;default:'not_started'" json:"status"`
	Attempts      int        `gorm:"column:attempts;not null;default:0" json:"attempts"`
	TotalScore    float64    `gorm:"column:total_score;type:double precision;not null;default:0" json:"total_score"`
	TotalTimeMs   int64      `gorm:"column:total_time_ms;not null;default:0" json:"total_time_ms"`
	Score         float64    `gorm:"column:score;type:double precision;not null;default:0" json:"score"`
	TimeSpent     int        `gorm:"column:time_spent;not null;default:0" json:"time_spent"`
	LastTaskIndex int        `gorm:"column:last_task_index;not null;default:0" json:"last_task_index"`
	StartedAt     time.Time  `gorm:"column:started_at;not null" json:"started_at"`
	CompletedAt   *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}

func (LessonProgress) TableName() string { return "lesson_progress" }

func (p *LessonProgress) IsCompleted() bool {
	return p != nil && p.Status == LessonStatusCompleted
}
