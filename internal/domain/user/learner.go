package user

import (
	"time"

	"github.com/google/uuid"
)

// Learner carries the progress-owned projection of a user: XP counter, timezone and streak.
// Rows are created on first activity.
type Learner struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Timezone         string    `gorm:"column:timezone;not null;default:'UTC'" json:"timezone"`
	XPTotal          int64     `gorm:"column:xp_total;not null;default:0" json:"xp_total"`
	StreakCurrent    int       `gorm:"column:streak_current;not null;default:0" json:"streak_current"`
	StreakLongest    int       `gorm:"column:streak_longest;not null;default:0" json:"streak_longest"`
	StreakLastDayKey string    `gorm:"column:streak_last_day_key" json:"streak_last_day_key,omitempty"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}

func (Learner) TableName() string { return "learner" }
