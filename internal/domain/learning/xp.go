package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	XPSourceTask           = "task"
	XPSourceLessonComplete = "lesson_complete"
	XPSourceStreakBonus    = "streak_bonus"
)

// XPLedgerEntry is an append-only audit row. The learner's xp_total is the read projection.
type XPLedgerEntry struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_xp_user_created,priority:1" json:"user_id"`
	Delta     int            `gorm:"column:delta;not null" json:"delta"`
	Source    string         `gorm:"column:source;not null" json:"source"`
	Ref       string         `gorm:"column:ref" json:"ref,omitempty"`
	SessionID string         `gorm:"column:session_id" json:"session_id,omitempty"`
	Meta      datatypes.JSON `gorm:"column:meta" json:"meta,omitempty"`
	CreatedAt time.Time      `gorm:"not null;index:idx_xp_user_created,priority:2" json:"created_at"`
}

func (XPLedgerEntry) TableName() string { return "xp_ledger_entry" }

// DailyStat is one bucket per user and calendar day in the user's timezone.
type DailyStat struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index:idx_daily_stat_user_day,unique,priority:1" json:"user_id"`
	DayKey           string    `gorm:"column:day_key;not null;index:idx_daily_stat_user_day,unique,priority:2" json:"day_key"`
	XPEarned         int       `gorm:"column:xp_earned;not null;default:0" json:"xp_earned"`
	TasksCompleted   int       `gorm:"column:tasks_completed;not null;default:0" json:"tasks_completed"`
	LessonsCompleted int       `gorm:"column:lessons_completed;not null;default:0" json:"lessons_completed"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}

func (DailyStat) TableName() string { return "user_daily_stat" }
