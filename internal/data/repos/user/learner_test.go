package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/lingua-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lingua-backend/internal/domain"
	"github.com/yungbote/lingua-backend/internal/platform/dbctx"
)

func TestLearnerRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewLearnerRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	id := uuid.New()
	if err := repo.EnsureCreated(dbc, id, "Europe/Berlin"); err != nil {
		t.Fatalf("EnsureCreated: %v", err)
	}
	if err := repo.EnsureCreated(dbc, id, "Asia/Tokyo"); err != nil {
		t.Fatalf("EnsureCreated again: %v", err)
	}
	got, err := repo.LockByID(dbc, id)
	if err != nil {
		t.Fatalf("LockByID: %v", err)
	}
	if got.Timezone != "Europe/Berlin" {
		t.Fatalf("existing timezone must be kept, got=%q", got.Timezone)
	}

	if err := repo.AddXP(dbc, id, 10); err != nil {
		t.Fatalf("AddXP: %v", err)
	}
	if err := repo.AddXP(dbc, id, 50); err != nil {
		t.Fatalf("AddXP: %v", err)
	}
	if err := repo.UpdateStreak(dbc, id, types.StreakState{Current: 2, Longest: 2, LastActiveDayKey: "2026-01-02"}); err != nil {
		t.Fatalf("UpdateStreak: %v", err)
	}
	if err := repo.UpdateStreak(dbc, id, types.StreakState{Current: 1, Longest: 1, LastActiveDayKey: "2026-01-05"}); err != nil {
		t.Fatalf("UpdateStreak reset: %v", err)
	}
	got, err = repo.GetByID(dbc, id)
	if err != nil || got == nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.XPTotal != 60 {
		t.Fatalf("xp total: want=60 got=%d", got.XPTotal)
	}
	if got.StreakCurrent != 1 || got.StreakLongest != 2 || got.StreakLastDayKey != "2026-01-05" {
		t.Fatalf("streak: %+v", got)
	}

	if err := repo.SetTimezone(dbc, id, "Not/AZone"); err == nil {
		t.Fatalf("expected invalid timezone error")
	}
	if err := repo.AddXP(dbc, uuid.New(), 5); err == nil {
		t.Fatalf("expected error for missing learner")
	}
}
