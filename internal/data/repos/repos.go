package repos

import (
	"github.com/yungbote/lingua-backend/internal/data/repos/learning"
	"github.com/yungbote/lingua-backend/internal/data/repos/user"
	"github.com/yungbote/lingua-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type LearnerRepo = user.LearnerRepo

type LessonRepo = learning.LessonRepo
type LessonProgressRepo = learning.LessonProgressRepo
type LessonAttemptRepo = learning.LessonAttemptRepo
type XPLedgerRepo = learning.XPLedgerRepo
type DailyStatRepo = learning.DailyStatRepo
type DailyStatDelta = learning.DailyStatDelta

func NewLearnerRepo(db *gorm.DB, baseLog *logger.Logger) LearnerRepo {
	return user.NewLearnerRepo(db, baseLog)
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return learning.NewLessonRepo(db, baseLog)
}
func NewLessonProgressRepo(db *gorm.DB, baseLog *logger.Logger) LessonProgressRepo {
	return learning.NewLessonProgressRepo(db, baseLog)
}
func NewLessonAttemptRepo(db *gorm.DB, baseLog *logger.Logger) LessonAttemptRepo {
	return learning.NewLessonAttemptRepo(db, baseLog)
}
func NewXPLedgerRepo(db *gorm.DB, baseLog *logger.Logger) XPLedgerRepo {
	return learning.NewXPLedgerRepo(db, baseLog)
}
func NewDailyStatRepo(db *gorm.DB, baseLog *logger.Logger) DailyStatRepo {
	return learning.NewDailyStatRepo(db, baseLog)
}
