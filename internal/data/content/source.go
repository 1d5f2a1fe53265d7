// Package content adapts lesson stores to the read-only Source the grading and progress
// code consume.
package content

import (
	"context"

	"github.com/yungbote/lingua-backend/internal/data/repos"
	types "github.com/yungbote/lingua-backend/internal/domain"
	"github.com/yungbote/lingua-backend/internal/platform/dbctx"
)

// Source returns published lessons with their tasks ordered by position. An absent lesson
// is (nil, nil).
type Source interface {
	GetLessonByRef(ctx context.Context, ref string) (*types.Lesson, error)
	GetLessonByModuleAndOrder(ctx context.Context, moduleRef string, order int) (*types.Lesson, error)
}

type repoSource struct {
	lessons repos.LessonRepo
}

// NewRepoSource serves lessons from the lesson tables.
func NewRepoSource(lessons repos.LessonRepo) Source {
	return &repoSource{lessons: lessons}
}

func (s *repoSource) GetLessonByRef(ctx context.Context, ref string) (*types.Lesson, error) {
	return s.lessons.GetPublishedByRef(dbctx.Context{Ctx: ctx}, ref)
}

func (s *repoSource) GetLessonByModuleAndOrder(ctx context.Context, moduleRef string, order int) (*types.Lesson, error) {
	return s.lessons.GetPublishedByModuleAndOrder(dbctx.Context{Ctx: ctx}, moduleRef, order)
}
