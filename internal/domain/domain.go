package domain

import (
	"github.com/yungbote/lingua-backend/internal/domain/learning"
	"github.com/yungbote/lingua-backend/internal/domain/user"
)

const (
	LessonStatusNotStarted = learning.LessonStatusNotStarted
	LessonStatusInProgress = learning.LessonStatusInProgress
	LessonStatusCompleted  = learning.LessonStatusCompleted

	XPSourceTask           = learning.XPSourceTask
	XPSourceLessonComplete = learning.XPSourceLessonComplete
	XPSourceStreakBonus    = learning.XPSourceStreakBonus
)

type Learner = user.Learner

type Lesson = learning.Lesson
type LessonTask = learning.LessonTask
type LessonProgress = learning.LessonProgress
type LessonAttempt = learning.LessonAttempt
type XPLedgerEntry = learning.XPLedgerEntry
type DailyStat = learning.DailyStat
type StreakState = learning.StreakState
type XPRules = learning.XPRules

func ModuleRefOf(lessonRef string) string { return learning.ModuleRefOf(lessonRef) }
