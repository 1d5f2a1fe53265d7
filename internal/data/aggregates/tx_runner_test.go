package aggregates_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/lingua-backend/internal/data/aggregates"
	"github.com/yungbote/lingua-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lingua-backend/internal/domain"
	domainagg "github.com/yungbote/lingua-backend/internal/domain/aggregates"
	"github.com/yungbote/lingua-backend/internal/platform/dbctx"
)

func learnerExists(t *testing.T, dbc dbctx.Context, id uuid.UUID) bool {
	t.Helper()
	var n int64
	if err := dbc.Tx.WithContext(dbc.Ctx).Model(&types.Learner{}).Where("id = ?", id).Count(&n).Error; err != nil {
		t.Fatalf("count learner: %v", err)
	}
	return n == 1
}

func TestGormTxRunnerCommitsAndRollsBack(t *testing.T) {
	db := testutil.DB(t)
	runner := aggregates.NewGormTxRunner(db)
	ctx := context.Background()

	kept := uuid.New()
	if err := runner.InTx(ctx, func(dbc dbctx.Context) error {
		return dbc.Tx.Create(&types.Learner{ID: kept, Timezone: "UTC"}).Error
	}); err != nil {
		t.Fatalf("InTx commit: %v", err)
	}
	if !learnerExists(t, dbctx.Context{Ctx: ctx, Tx: db}, kept) {
		t.Fatalf("committed learner missing")
	}

	dropped := uuid.New()
	boom := errors.New("boom")
	err := runner.InTx(ctx, func(dbc dbctx.Context) error {
		if err := dbc.Tx.Create(&types.Learner{ID: dropped, Timezone: "UTC"}).Error; err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("InTx should return the body error, got=%v", err)
	}
	if learnerExists(t, dbctx.Context{Ctx: ctx, Tx: db}, dropped) {
		t.Fatalf("rolled back learner was persisted")
	}
}

func TestGormTxRunnerSkipsDoneContext(t *testing.T) {
	runner := aggregates.NewGormTxRunner(testutil.DB(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := runner.InTx(ctx, func(dbctx.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, context.Canceled) || called {
		t.Fatalf("done context: err=%v called=%v", err, called)
	}
}

func TestGormTxRunnerNilDB(t *testing.T) {
	err := aggregates.NewGormTxRunner(nil).InTx(context.Background(), func(dbctx.Context) error { return nil })
	if !domainagg.IsCode(err, domainagg.CodeInternal) {
		t.Fatalf("nil db: expected internal code, got=%v", err)
	}
}
