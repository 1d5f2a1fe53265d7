package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/lingua-backend/internal/data/repos"
	"github.com/yungbote/lingua-backend/internal/platform/logger"
)

type Repos struct {
	Learner        repos.LearnerRepo
	Lesson         repos.LessonRepo
	LessonProgress repos.LessonProgressRepo
	LessonAttempt  repos.LessonAttemptRepo
	XPLedger       repos.XPLedgerRepo
	DailyStat      repos.DailyStatRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Learner:        repos.NewLearnerRepo(db, log),
		Lesson:         repos.NewLessonRepo(db, log),
		LessonProgress: repos.NewLessonProgressRepo(db, log),
		LessonAttempt:  repos.NewLessonAttemptRepo(db, log),
		XPLedger:       repos.NewXPLedgerRepo(db, log),
		DailyStat:      repos.NewDailyStatRepo(db, log),
	}
}
