package progress

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/lingua-backend/internal/data/content"
	"github.com/yungbote/lingua-backend/internal/data/repos"
	types "github.com/yungbote/lingua-backend/internal/domain"
	"github.com/yungbote/lingua-backend/internal/platform/dbctx"
)

const ReasonPrerequisiteNotMet = "prerequisite_not_met"

type GateDecision struct {
	CanStart       bool   `json:"can_start"`
	Reason         string `json:"reason,omitempty"`
	RequiredLesson string `json:"required_lesson,omitempty"`
}

// Gate enforces that a lesson is started only after the previous lesson of its module.
type Gate struct {
	content  content.Source
	progress repos.LessonProgressRepo
}

func NewGate(src content.Source, progress repos.LessonProgressRepo) *Gate {
	return &Gate{content: src, progress: progress}
}

// CanStart loads lessonRef and decides whether userID may start it.
func (g *Gate) CanStart(ctx context.Context, userID uuid.UUID, lessonRef string) (GateDecision, error) {
	lesson, err := g.content.GetLessonByRef(ctx, strings.TrimSpace(lessonRef))
	if err != nil {
		return GateDecision{}, err
	}
	if lesson == nil {
		return GateDecision{}, ErrLessonNotFound
	}
	return g.Check(ctx, userID, lesson)
}

// Check decides for a lesson the caller already loaded. Only the immediately preceding
// lesson by order is consulted.
func (g *Gate) Check(ctx context.Context, userID uuid.UUID, lesson *types.Lesson) (GateDecision, error) {
	if lesson.Order <= 1 {
		return GateDecision{CanStart: true}, nil
	}
	prev, err := g.content.GetLessonByModuleAndOrder(ctx, lesson.ModuleRef, lesson.Order-1)
	if err != nil {
		return GateDecision{}, err
	}
	if prev == nil {
		return GateDecision{CanStart: true}, nil
	}
	done, err := g.progress.IsCompleted(dbctx.Context{Ctx: ctx}, userID, prev.Ref)
	if err != nil {
		return GateDecision{}, err
	}
	if !done {
		return GateDecision{
			CanStart:       false,
			Reason:         ReasonPrerequisiteNotMet,
			RequiredLesson: prev.Ref,
		}, nil
	}
	return GateDecision{CanStart: true}, nil
}
