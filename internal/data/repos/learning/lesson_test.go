package learning

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/yungbote/lingua-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lingua-backend/internal/domain"
	"github.com/yungbote/lingua-backend/internal/platform/dbctx"
	"gorm.io/datatypes"
)

func TestLessonRepoGetPublished(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewLessonRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	module := testutil.UniqueModule()
	l1 := testutil.SeedLesson(t, ctx, tx, module, 1,
		testutil.TaskSpec{Ref: "t1", Type: "choice", Public: `{"options":["Hello","Bye"],"correctIndex":0}`},
		testutil.TaskSpec{Ref: "t2", Type: "gap", Public: `{"answer":"passport"}`},
	)

	got, err := repo.GetPublishedByRef(dbc, l1.Ref)
	if err != nil || got == nil {
		t.Fatalf("GetPublishedByRef: got=%v err=%v", got, err)
	}
	if len(got.Tasks) != 2 || got.Tasks[0].Ref != "t1" || got.Tasks[1].Ref != "t2" {
		t.Fatalf("tasks should be ordered by position: %+v", got.Tasks)
	}
	if last, idx, ok := got.LastTask(); !ok || last.Ref != "t2" || idx != 1 {
		t.Fatalf("LastTask: ref=%v idx=%d ok=%v", last, idx, ok)
	}

	byOrder, err := repo.GetPublishedByModuleAndOrder(dbc, module, 1)
	if err != nil || byOrder == nil || byOrder.ID != l1.ID {
		t.Fatalf("GetPublishedByModuleAndOrder: got=%v err=%v", byOrder, err)
	}
	missing, err := repo.GetPublishedByModuleAndOrder(dbc, module, 7)
	if err != nil || missing != nil {
		t.Fatalf("expected absent lesson, got=%v err=%v", missing, err)
	}
	if none, err := repo.GetPublishedByRef(dbc, "nope.nope.l1"); err != nil || none != nil {
		t.Fatalf("expected absent lesson, got=%v err=%v", none, err)
	}
}

func TestLessonRepoUpsertReplacesTasks(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewLessonRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	module := testutil.UniqueModule()
	l := &types.Lesson{
		Ref:       module + ".l1",
		Order:     1,
		Published: true,
		Tasks: []*types.LessonTask{
			{Ref: "a", Type: "gap", PublicData: datatypes.JSON([]byte(`{"answer":"x"}`))},
		},
	}
	if _, err := repo.Upsert(dbc, l); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if l.ModuleRef != module {
		t.Fatalf("module ref should be derived, got=%q", l.ModuleRef)
	}
	firstID := l.ID

	l2 := &types.Lesson{
		Ref:       module + ".l1",
		Order:     1,
		Published: true,
		Tasks: []*types.LessonTask{
			{Ref: "b", Type: "gap"},
			{Ref: "c", Type: "translate"},
		},
	}
	if _, err := repo.Upsert(dbc, l2); err != nil {
		t.Fatalf("Upsert again: %v", err)
	}
	if l2.ID != firstID {
		t.Fatalf("upsert should keep lesson id")
	}
	got, err := repo.GetPublishedByRef(dbc, l.Ref)
	if err != nil || got == nil {
		t.Fatalf("GetPublishedByRef: %v", err)
	}
	if len(got.Tasks) != 2 || got.Tasks[0].Ref != "b" {
		t.Fatalf("tasks not replaced: %+v", got.Tasks)
	}
}

func TestLessonTaskJSONOmitsValidationData(t *testing.T) {
	task := &types.LessonTask{
		Ref:            "t1",
		Type:           "choice",
		PublicData:     datatypes.JSON([]byte(`{"options":["a","b"]}`)),
		ValidationData: datatypes.JSON([]byte(`{"correctIndex":1}`)),
	}
	raw, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := m["validation_data"]; ok {
		t.Fatalf("validation data must not be serialized: %s", raw)
	}
	if _, ok := m["ValidationData"]; ok {
		t.Fatalf("validation data must not be serialized: %s", raw)
	}
}
