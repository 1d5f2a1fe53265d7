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

type LessonProgressRepo interface {
	// EnsureCreated inserts row unless (user_id, lesson_ref) already exists. created reports
	// whether this call inserted it.
	EnsureCreated(dbc dbctx.Context, row *types.LessonProgress) (created bool, err error)
	GetByUserAndLesson(dbc dbctx.Context, userID uuid.UUID, lessonRef string) (*types.LessonProgress, error)
	LockByUserAndLesson(dbc dbctx.Context, userID uuid.UUID, lessonRef string) (*types.LessonProgress, error)
	// ApplyAttempt adds one attempt to the running sums and recomputes the derived score and
	// time_spent in the same statement.
	ApplyAttempt(dbc dbctx.Context, id uuid.UUID, score float64, durationMs int64, lastTaskIndex int) error
	IsCompleted(dbc dbctx.Context, userID uuid.UUID, lessonRef string) (bool, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.LessonProgress, error)
	CountCompletedByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
}

type lessonProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonProgressRepo(db *gorm.DB, baseLog *logger.Logger) LessonProgressRepo {
	return &lessonProgressRepo{db: db, log: baseLog.With("repo", "LessonProgressRepo")}
}

func (r *lessonProgressRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *lessonProgressRepo) EnsureCreated(dbc dbctx.Context, row *types.LessonProgress) (bool, error) {
	if row == nil || row.UserID == uuid.Nil || strings.TrimSpace(row.LessonRef) == "" {
		return false, fmt.Errorf("user_id and lesson_ref required")
	}
	now := time.Now().UTC()
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.Status == "" {
		row.Status = types.LessonStatusInProgress
	}
	if row.ModuleRef == "" {
		row.ModuleRef = types.ModuleRefOf(row.LessonRef)
	}
	if row.StartedAt.IsZero() {
		row.StartedAt = now
	}
	row.CreatedAt = now
	row.UpdatedAt = now
	res := r.dbx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_ref"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *lessonProgressRepo) GetByUserAndLesson(dbc dbctx.Context, userID uuid.UUID, lessonRef string) (*types.LessonProgress, error) {
	if userID == uuid.Nil || strings.TrimSpace(lessonRef) == "" {
		return nil, nil
	}
	var out types.LessonProgress
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND lesson_ref = ?", userID, lessonRef).
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *lessonProgressRepo) LockByUserAndLesson(dbc dbctx.Context, userID uuid.UUID, lessonRef string) (*types.LessonProgress, error) {
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByUserAndLesson required dbc.Tx")
	}
	var out types.LessonProgress
	if err := dbc.Tx.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND lesson_ref = ?", userID, lessonRef).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *lessonProgressRepo) ApplyAttempt(dbc dbctx.Context, id uuid.UUID, score float64, durationMs int64, lastTaskIndex int) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing id")
	}
	res := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.LessonProgress{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":        gorm.Expr("attempts + 1"),
			"total_score":     gorm.Expr("total_score + ?", score),
			"total_time_ms":   gorm.Expr("total_time_ms + ?", durationMs),
			"score":           gorm.Expr("(total_score + ?) / (attempts + 1)", score),
			"time_spent":      gorm.Expr("CAST(ROUND((total_time_ms + ?) / 1000.0) AS INTEGER)", durationMs),
			"last_task_index": lastTaskIndex,
			"status": gorm.Expr("CASE WHEN status = ? THEN ? ELSE status END",
				types.LessonStatusNotStarted, types.LessonStatusInProgress),
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

func (r *lessonProgressRepo) IsCompleted(dbc dbctx.Context, userID uuid.UUID, lessonRef string) (bool, error) {
	if userID == uuid.Nil || strings.TrimSpace(lessonRef) == "" {
		return false, nil
	}
	var n int64
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.LessonProgress{}).
		Where("user_id = ? AND lesson_ref = ? AND status = ?", userID, lessonRef, types.LessonStatusCompleted).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *lessonProgressRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.LessonProgress, error) {
	out := []*types.LessonProgress{}
	if userID == uuid.Nil {
		return out, nil
	}
	if limit <= 0 {
		limit = 200
	}
	if limit > 1000 {
		limit = 1000
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonProgressRepo) CountCompletedByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	var n int64
	if userID == uuid.Nil {
		return 0, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.LessonProgress{}).
		Where("user_id = ? AND status = ?", userID, types.LessonStatusCompleted).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
