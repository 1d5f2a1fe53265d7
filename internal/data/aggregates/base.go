package aggregates

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/lingua-backend/internal/domain/aggregates"
	"github.com/yungbote/lingua-backend/internal/platform/dbctx"
	"github.com/yungbote/lingua-backend/internal/platform/logger"
)

const (
	defaultWriteOp = "aggregate.write"
	statusSuccess  = "success"
	statusFailure  = "failure"
)

var tracer = otel.Tracer("lingua-backend/aggregates")

// BaseDeps are shared by every aggregate. Zero fields are filled from DB.
type BaseDeps struct {
	DB       *gorm.DB
	Log      *logger.Logger
	Runner   TxRunner
	Hooks    Hooks
	CASGuard CASGuard
	// Now stamps ledger rows, attempts and completion times.
	Now func() time.Time
}

func (d BaseDeps) withDefaults() BaseDeps {
	out := d
	if out.Runner == nil {
		out.Runner = NewGormTxRunner(out.DB)
	}
	if out.CASGuard.db == nil {
		out.CASGuard = NewCASGuard(out.DB)
	}
	if out.Hooks == nil {
		out.Hooks = noopHooks{}
	}
	if out.Log == nil {
		out.Log = logger.NewNop()
	}
	if out.Now == nil {
		out.Now = utcNow
	}
	return out
}

func utcNow() time.Time { return time.Now().UTC() }

// executeWrite runs fn inside one transaction owned by the aggregate. The returned error,
// if any, always carries a domainagg code.
func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	deps = deps.withDefaults()
	if op = strings.TrimSpace(op); op == "" {
		op = defaultWriteOp
	}
	started := time.Now()
	ctx, span := tracer.Start(ctx, op)
	defer span.End()

	err := MapError(op, deps.Runner.InTx(ctx, fn))
	reportWrite(deps, span, op, err, time.Since(started))
	return err
}

func reportWrite(deps BaseDeps, span trace.Span, op string, err error, took time.Duration) {
	status := aggregateErrorStatus(err)
	span.SetAttributes(attribute.String("aggregate.status", status))
	defer deps.Hooks.ObserveOperation(op, status, took)
	if err == nil {
		return
	}

	switch domainagg.CodeOf(err) {
	case domainagg.CodeConflict:
		deps.Hooks.IncConflict(op)
	case domainagg.CodeRetryable:
		deps.Hooks.IncRetry(op)
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, status)
	deps.Log.Warn("aggregate write failed", "op", op, "status", status, "error", err)
}

// aggregateErrorStatus is the metrics label for a write outcome.
func aggregateErrorStatus(err error) string {
	if err == nil {
		return statusSuccess
	}
	if code := domainagg.CodeOf(err); code != "" {
		return string(code)
	}
	if code := domainagg.CodeOf(MapError("aggregate.status", err)); code != "" {
		return string(code)
	}
	return statusFailure
}
