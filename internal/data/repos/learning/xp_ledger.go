package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lingua-backend/internal/domain"
	"github.com/yungbote/lingua-backend/internal/platform/dbctx"
	"github.com/yungbote/lingua-backend/internal/platform/logger"
)

type XPLedgerRepo interface {
	Create(dbc dbctx.Context, rows []*types.XPLedgerEntry) ([]*types.XPLedgerEntry, error)
	ListRecentByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.XPLedgerEntry, error)
	SumByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
}

type xpLedgerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewXPLedgerRepo(db *gorm.DB, baseLog *logger.Logger) XPLedgerRepo {
	return &xpLedgerRepo{db: db, log: baseLog.With("repo", "XPLedgerRepo")}
}

func (r *xpLedgerRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *xpLedgerRepo) Create(dbc dbctx.Context, rows []*types.XPLedgerEntry) ([]*types.XPLedgerEntry, error) {
	if len(rows) == 0 {
		return []*types.XPLedgerEntry{}, nil
	}
	now := time.Now().UTC()
	for _, x := range rows {
		if x == nil {
			continue
		}
		if x.ID == uuid.Nil {
			x.ID = uuid.New()
		}
		if x.CreatedAt.IsZero() {
			x.CreatedAt = now
		}
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *xpLedgerRepo) ListRecentByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.XPLedgerEntry, error) {
	out := []*types.XPLedgerEntry{}
	if userID == uuid.Nil {
		return out, nil
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *xpLedgerRepo) SumByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	var n int64
	if userID == uuid.Nil {
		return 0, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.XPLedgerEntry{}).
		Select("COALESCE(SUM(delta), 0)").
		Where("user_id = ?", userID).
		Scan(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
