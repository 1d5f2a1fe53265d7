package db

import (
	"fmt"

	types "github.com/yungbote/lingua-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// =========================
		// Content (read-only to the progress core)
		// =========================
		&types.Lesson{},
		&types.LessonTask{},

		// =========================
		// Progress
		// =========================
		&types.Learner{},
		&types.LessonProgress{},
		&types.LessonAttempt{},
		&types.XPLedgerEntry{},
		&types.DailyStat{},
	)
}

// EnsureProgressIndexes adds Postgres-only indexes gorm tags cannot express.
func EnsureProgressIndexes(db *gorm.DB) error {
	if db.Dialector.Name() != DriverPostgres {
		return nil
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_lesson_progress_user_status
		ON lesson_progress (user_id, status)
		WHERE status = 'completed';
	`).Error; err != nil {
		return fmt.Errorf("create idx_lesson_progress_user_status: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_daily_stat_user_day_desc
		ON user_daily_stat (user_id, day_key DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_daily_stat_user_day_desc: %w", err)
	}
	return nil
}
