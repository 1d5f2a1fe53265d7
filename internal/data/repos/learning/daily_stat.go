package learning

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

type DailyStatDelta struct {
	XPEarned         int
	TasksCompleted   int
	LessonsCompleted int
}

type DailyStatRepo interface {
	// Increment adds delta to the (user, day) bucket, creating it on first use.
	Increment(dbc dbctx.Context, userID uuid.UUID, dayKey string, delta DailyStatDelta) error
	GetByUserAndDay(dbc dbctx.Context, userID uuid.UUID, dayKey string) (*types.DailyStat, error)
	ListRecentByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.DailyStat, error)
}

type dailyStatRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDailyStatRepo(db *gorm.DB, baseLog *logger.Logger) DailyStatRepo {
	return &dailyStatRepo{db: db, log: baseLog.With("repo", "DailyStatRepo")}
}

func (r *dailyStatRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *dailyStatRepo) Increment(dbc dbctx.Context, userID uuid.UUID, dayKey string, delta DailyStatDelta) error {
	dayKey = strings.TrimSpace(dayKey)
	if userID == uuid.Nil || dayKey == "" {
		return fmt.Errorf("user_id and day_key required")
	}
	now := time.Now().UTC()
	row := &types.DailyStat{
		ID:               uuid.New(),
		UserID:           userID,
		DayKey:           dayKey,
		XPEarned:         delta.XPEarned,
		TasksCompleted:   delta.TasksCompleted,
		LessonsCompleted: delta.LessonsCompleted,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "day_key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"xp_earned":         gorm.Expr("user_daily_stat.xp_earned + excluded.xp_earned"),
				"tasks_completed":   gorm.Expr("user_daily_stat.tasks_completed + excluded.tasks_completed"),
				"lessons_completed": gorm.Expr("user_daily_stat.lessons_completed + excluded.lessons_completed"),
				"updated_at":        now,
			}),
		}).
		Create(row).Error
}

func (r *dailyStatRepo) GetByUserAndDay(dbc dbctx.Context, userID uuid.UUID, dayKey string) (*types.DailyStat, error) {
	var out types.DailyStat
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND day_key = ?", userID, dayKey).
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *dailyStatRepo) ListRecentByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.DailyStat, error) {
	out := []*types.DailyStat{}
	if userID == uuid.Nil {
		return out, nil
	}
	if limit <= 0 {
		limit = 30
	}
	if limit > 366 {
		limit = 366
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("day_key DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
