package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/lingua-backend/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TaskSpec describes one seeded task; Public and Validation are raw JSON.
type TaskSpec struct {
	Ref        string
	Type       string
	Public     string
	Validation string
}

// UniqueModule returns a module ref that no other test shares.
func UniqueModule() string {
	return "t" + uuid.NewString()[:8] + ".m1"
}

// SeedLesson inserts a published lesson with tasks in the given order.
func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, moduleRef string, order int, tasks ...TaskSpec) *types.Lesson {
	tb.Helper()
	now := time.Now().UTC()
	l := &types.Lesson{
		ID:        uuid.New(),
		Ref:       fmt.Sprintf("%s.l%d", moduleRef, order),
		ModuleRef: moduleRef,
		Order:     order,
		Title:     fmt.Sprintf("Lesson %d", order),
		Published: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Omit("Tasks").Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	for i, spec := range tasks {
		t := &types.LessonTask{
			ID:        uuid.New(),
			LessonID:  l.ID,
			Position:  i,
			Ref:       spec.Ref,
			Type:      spec.Type,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if spec.Public != "" {
			t.PublicData = datatypes.JSON([]byte(spec.Public))
		}
		if spec.Validation != "" {
			t.ValidationData = datatypes.JSON([]byte(spec.Validation))
		}
		if err := tx.WithContext(ctx).Create(t).Error; err != nil {
			tb.Fatalf("seed lesson task: %v", err)
		}
		l.Tasks = append(l.Tasks, t)
	}
	return l
}

// SeedCompletedProgress marks lessonRef completed for userID.
func SeedCompletedProgress(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, lessonRef string) *types.LessonProgress {
	tb.Helper()
	now := time.Now().UTC()
	p := &types.LessonProgress{
		ID:          uuid.New(),
		UserID:      userID,
		LessonRef:   lessonRef,
		ModuleRef:   types.ModuleRefOf(lessonRef),
		Status:      types.LessonStatusCompleted,
		StartedAt:   now,
		CompletedAt: &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed lesson progress: %v", err)
	}
	return p
}
