package content

import (
	"context"
	"testing"

	"github.com/yungbote/lingua-backend/internal/data/repos"
	"github.com/yungbote/lingua-backend/internal/data/repos/testutil"
)

func TestRepoSource(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	module := testutil.UniqueModule()
	l := testutil.SeedLesson(t, ctx, db, module, 1, testutil.TaskSpec{Ref: "t1", Type: "gap", Public: `{"answer":"x"}`})

	src := NewRepoSource(repos.NewLessonRepo(db, testutil.Logger(t)))
	got, err := src.GetLessonByRef(ctx, l.Ref)
	if err != nil || got == nil || len(got.Tasks) != 1 {
		t.Fatalf("GetLessonByRef: got=%v err=%v", got, err)
	}
	got, err = src.GetLessonByModuleAndOrder(ctx, module, 1)
	if err != nil || got == nil || got.Ref != l.Ref {
		t.Fatalf("GetLessonByModuleAndOrder: got=%v err=%v", got, err)
	}
}
