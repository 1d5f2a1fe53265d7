package user

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/lingua-backend/internal/domain"
	"github.com/yungbote/lingua-backend/internal/platform/dbctx"
	"github.com/yungbote/lingua-backend/internal/platform/logger"
)

type LearnerRepo interface {
	// EnsureCreated inserts a learner row for id unless one exists. tz only seeds new rows.
	EnsureCreated(dbc dbctx.Context, id uuid.UUID, tz string) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Learner, error)
	LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Learner, error)
	AddXP(dbc dbctx.Context, id uuid.UUID, delta int) error
	UpdateStreak(dbc dbctx.Context, id uuid.UUID, state types.StreakState) error
	SetTimezone(dbc dbctx.Context, id uuid.UUID, tz string) error
}

type learnerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearnerRepo(db *gorm.DB, baseLog *logger.Logger) LearnerRepo {
	return &learnerRepo{db: db, log: baseLog.With("repo", "LearnerRepo")}
}

func (r *learnerRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *learnerRepo) EnsureCreated(dbc dbctx.Context, id uuid.UUID, tz string) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing id")
	}
	tz = strings.TrimSpace(tz)
	if tz == "" {
		tz = "UTC"
	}
	now := time.Now().UTC()
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(&types.Learner{ID: id, Timezone: tz, CreatedAt: now, UpdatedAt: now}).Error
}

func (r *learnerRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Learner, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Learner
	err := r.dbx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *learnerRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Learner, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByID required dbc.Tx")
	}
	var out types.Learner
	if err := dbc.Tx.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *learnerRepo) AddXP(dbc dbctx.Context, id uuid.UUID, delta int) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing id")
	}
	if delta == 0 {
		return nil
	}
	res := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Learner{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"xp_total":   gorm.Expr("xp_total + ?", delta),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *learnerRepo) UpdateStreak(dbc dbctx.Context, id uuid.UUID, state types.StreakState) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing id")
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Learner{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"streak_current":      state.Current,
			"streak_longest":      gorm.Expr("CASE WHEN streak_longest > ? THEN streak_longest ELSE ? END", state.Longest, state.Longest),
			"streak_last_day_key": state.LastActiveDayKey,
			"updated_at":          time.Now().UTC(),
		}).Error
}

func (r *learnerRepo) SetTimezone(dbc dbctx.Context, id uuid.UUID, tz string) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing id")
	}
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return fmt.Errorf("timezone required")
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Learner{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"timezone":   tz,
			"updated_at": time.Now().UTC(),
		}).Error
}
