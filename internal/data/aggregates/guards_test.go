package aggregates

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/lingua-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lingua-backend/internal/domain"
	"github.com/yungbote/lingua-backend/internal/platform/dbctx"
)

func TestCASGuardCompletesLessonOnce(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	row := testutil.SeedCompletedProgress(t, ctx, tx, uuid.New(), testutil.UniqueModule()+".l1")
	if err := tx.Model(&types.LessonProgress{}).Where("id = ?", row.ID).
		Updates(map[string]any{"status": types.LessonStatusInProgress, "completed_at": nil}).Error; err != nil {
		t.Fatalf("reset status: %v", err)
	}

	guard := NewCASGuard(db)
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	complete := Transition{
		Table: "lesson_progress",
		ID:    row.ID,
		From:  []string{types.LessonStatusNotStarted, types.LessonStatusInProgress},
		To:    types.LessonStatusCompleted,
		Set:   map[string]any{"completed_at": time.Now().UTC()},
	}
	ok, err := guard.Apply(dbc, complete)
	if err != nil || !ok {
		t.Fatalf("first transition: ok=%v err=%v", ok, err)
	}
	ok, err = guard.Apply(dbc, complete)
	if err != nil || ok {
		t.Fatalf("second transition must not match: ok=%v err=%v", ok, err)
	}

	var got types.LessonProgress
	if err := tx.Take(&got, "id = ?", row.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Status != types.LessonStatusCompleted || got.CompletedAt == nil {
		t.Fatalf("row not completed: %+v", got)
	}
}

func TestCASGuardRejectsIncompleteTransitions(t *testing.T) {
	ctx := context.Background()
	if _, err := NewCASGuard(nil).Apply(dbctx.Context{Ctx: ctx}, Transition{Table: "lesson_progress", ID: uuid.New(), From: []string{"x"}, To: "y"}); err == nil {
		t.Fatalf("expected error without db")
	}
	guard := NewCASGuard(testutil.SQLite(t))
	for name, tr := range map[string]Transition{
		"no table":  {ID: uuid.New(), From: []string{"x"}, To: "y"},
		"no id":     {Table: "lesson_progress", From: []string{"x"}, To: "y"},
		"no source": {Table: "lesson_progress", ID: uuid.New(), To: "y"},
		"no target": {Table: "lesson_progress", ID: uuid.New(), From: []string{"x"}},
	} {
		if _, err := guard.Apply(dbctx.Context{Ctx: ctx}, tr); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}
