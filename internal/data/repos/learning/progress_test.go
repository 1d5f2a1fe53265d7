package learning

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/lingua-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lingua-backend/internal/domain"
	"github.com/yungbote/lingua-backend/internal/platform/dbctx"
)

func TestLessonProgressRepoApplyAttemptDerivesScoreAndTime(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewLessonProgressRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	userID := uuid.New()
	ref := testutil.UniqueModule() + ".l1"
	row := &types.LessonProgress{UserID: userID, LessonRef: ref}
	created, err := repo.EnsureCreated(dbc, row)
	if err != nil || !created {
		t.Fatalf("EnsureCreated: created=%v err=%v", created, err)
	}
	again, err := repo.EnsureCreated(dbc, &types.LessonProgress{UserID: userID, LessonRef: ref})
	if err != nil || again {
		t.Fatalf("second EnsureCreated should be a no-op: created=%v err=%v", again, err)
	}

	scores := []float64{1, 0, 0.75}
	durations := []int64{1200, 800, 1600}
	for i := range scores {
		if err := repo.ApplyAttempt(dbc, row.ID, scores[i], durations[i], i); err != nil {
			t.Fatalf("ApplyAttempt %d: %v", i, err)
		}
	}
	got, err := repo.GetByUserAndLesson(dbc, userID, ref)
	if err != nil || got == nil {
		t.Fatalf("GetByUserAndLesson: %v", err)
	}
	if got.Attempts != 3 {
		t.Fatalf("attempts: want=3 got=%d", got.Attempts)
	}
	if math.Abs(got.TotalScore-1.75) > 1e-9 {
		t.Fatalf("total score: got=%v", got.TotalScore)
	}
	if math.Abs(got.Score-1.75/3) > 1e-9 {
		t.Fatalf("score: want=%v got=%v", 1.75/3, got.Score)
	}
	if got.TotalTimeMs != 3600 || got.TimeSpent != 4 {
		t.Fatalf("time: total=%d spent=%d", got.TotalTimeMs, got.TimeSpent)
	}
	if got.LastTaskIndex != 2 {
		t.Fatalf("last task index: got=%d", got.LastTaskIndex)
	}
	if got.ModuleRef != types.ModuleRefOf(ref) || got.Status != types.LessonStatusInProgress {
		t.Fatalf("unexpected row: %+v", got)
	}
	if done, err := repo.IsCompleted(dbc, userID, ref); err != nil || done {
		t.Fatalf("IsCompleted: done=%v err=%v", done, err)
	}
}

func TestLessonAttemptRepoSequenceAndIdempotency(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewLessonAttemptRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	userID := uuid.New()
	ref := testutil.UniqueModule() + ".l1"
	if n, err := repo.MaxAttemptNo(dbc, userID, ref, "t1"); err != nil || n != 0 {
		t.Fatalf("MaxAttemptNo empty: n=%d err=%v", n, err)
	}
	token := "retry-1"
	if _, err := repo.Create(dbc, &types.LessonAttempt{
		UserID: userID, LessonRef: ref, TaskRef: "t1", AttemptNo: 1, IdempotencyToken: &token, Correct: true, Score: 1,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.Create(dbc, &types.LessonAttempt{
		UserID: userID, LessonRef: ref, TaskRef: "t1", AttemptNo: 2,
	}); err != nil {
		t.Fatalf("Create second: %v", err)
	}
	if n, err := repo.MaxAttemptNo(dbc, userID, ref, "t1"); err != nil || n != 2 {
		t.Fatalf("MaxAttemptNo: n=%d err=%v", n, err)
	}
	got, err := repo.GetByIdempotencyToken(dbc, userID, "t1", token)
	if err != nil || got == nil || got.AttemptNo != 1 {
		t.Fatalf("GetByIdempotencyToken: got=%v err=%v", got, err)
	}
	if other, err := repo.GetByIdempotencyToken(dbc, userID, "t2", token); err != nil || other != nil {
		t.Fatalf("token is scoped by task: got=%v err=%v", other, err)
	}
	rows, err := repo.ListByUserAndLesson(dbc, userID, ref, 0)
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListByUserAndLesson: len=%d err=%v", len(rows), err)
	}
}

func TestLessonAttemptRepoRejectsDuplicateAttemptNo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewLessonAttemptRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}

	userID := uuid.New()
	ref := testutil.UniqueModule() + ".l1"
	if _, err := repo.Create(dbc, &types.LessonAttempt{UserID: userID, LessonRef: ref, TaskRef: "t1", AttemptNo: 1}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.Create(dbc, &types.LessonAttempt{UserID: userID, LessonRef: ref, TaskRef: "t1", AttemptNo: 1}); err == nil {
		t.Fatalf("expected unique violation for duplicate attempt_no")
	}
}

func TestDailyStatRepoIncrementAccumulates(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewDailyStatRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	userID := uuid.New()
	if err := repo.Increment(dbc, userID, "2026-01-02", DailyStatDelta{XPEarned: 10, TasksCompleted: 1}); err != nil {
		t.Fatalf("Increment: %v", err)
	}
	if err := repo.Increment(dbc, userID, "2026-01-02", DailyStatDelta{XPEarned: 60, TasksCompleted: 1, LessonsCompleted: 1}); err != nil {
		t.Fatalf("Increment again: %v", err)
	}
	if err := repo.Increment(dbc, userID, "2026-01-03", DailyStatDelta{TasksCompleted: 1}); err != nil {
		t.Fatalf("Increment next day: %v", err)
	}
	got, err := repo.GetByUserAndDay(dbc, userID, "2026-01-02")
	if err != nil || got == nil {
		t.Fatalf("GetByUserAndDay: %v", err)
	}
	if got.XPEarned != 70 || got.TasksCompleted != 2 || got.LessonsCompleted != 1 {
		t.Fatalf("unexpected bucket: %+v", got)
	}
	rows, err := repo.ListRecentByUser(dbc, userID, 10)
	if err != nil || len(rows) != 2 || rows[0].DayKey != "2026-01-03" {
		t.Fatalf("ListRecentByUser: rows=%+v err=%v", rows, err)
	}
}

func TestXPLedgerRepoSumAndList(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewXPLedgerRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	userID := uuid.New()
	if _, err := repo.Create(dbc, []*types.XPLedgerEntry{
		{UserID: userID, Delta: 10, Source: types.XPSourceTask, Ref: "t1"},
		{UserID: userID, Delta: 50, Source: types.XPSourceLessonComplete, Ref: "a1.m1.l1"},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sum, err := repo.SumByUser(dbc, userID); err != nil || sum != 60 {
		t.Fatalf("SumByUser: sum=%d err=%v", sum, err)
	}
	rows, err := repo.ListRecentByUser(dbc, userID, 1)
	if err != nil || len(rows) != 1 {
		t.Fatalf("ListRecentByUser: len=%d err=%v", len(rows), err)
	}
}
