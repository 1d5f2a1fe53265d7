package learning

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lingua-backend/internal/domain"
	"github.com/yungbote/lingua-backend/internal/platform/dbctx"
	"github.com/yungbote/lingua-backend/internal/platform/logger"
)

// LessonAttemptRepo is append-only: there is no update or delete.
type LessonAttemptRepo interface {
	Create(dbc dbctx.Context, row *types.LessonAttempt) (*types.LessonAttempt, error)
	GetByIdempotencyToken(dbc dbctx.Context, userID uuid.UUID, taskRef, token string) (*types.LessonAttempt, error)
	MaxAttemptNo(dbc dbctx.Context, userID uuid.UUID, lessonRef, taskRef string) (int, error)
	ListByUserAndLesson(dbc dbctx.Context, userID uuid.UUID, lessonRef string, limit int) ([]*types.LessonAttempt, error)
	CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
}

type lessonAttemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonAttemptRepo(db *gorm.DB, baseLog *logger.Logger) LessonAttemptRepo {
	return &lessonAttemptRepo{db: db, log: baseLog.With("repo", "LessonAttemptRepo")}
}

func (r *lessonAttemptRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *lessonAttemptRepo) Create(dbc dbctx.Context, row *types.LessonAttempt) (*types.LessonAttempt, error) {
	if row == nil || row.UserID == uuid.Nil {
		return nil, fmt.Errorf("attempt user_id required")
	}
	if row.AttemptNo <= 0 {
		return nil, fmt.Errorf("attempt_no must be >= 1")
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.IdempotencyToken != nil && strings.TrimSpace(*row.IdempotencyToken) == "" {
		row.IdempotencyToken = nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *lessonAttemptRepo) GetByIdempotencyToken(dbc dbctx.Context, userID uuid.UUID, taskRef, token string) (*types.LessonAttempt, error) {
	token = strings.TrimSpace(token)
	if userID == uuid.Nil || token == "" {
		return nil, nil
	}
	var out types.LessonAttempt
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND task_ref = ? AND idempotency_token = ?", userID, taskRef, token).
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *lessonAttemptRepo) MaxAttemptNo(dbc dbctx.Context, userID uuid.UUID, lessonRef, taskRef string) (int, error) {
	var n int
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.LessonAttempt{}).
		Select("COALESCE(MAX(attempt_no), 0)").
		Where("user_id = ? AND lesson_ref = ? AND task_ref = ?", userID, lessonRef, taskRef).
		Scan(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *lessonAttemptRepo) ListByUserAndLesson(dbc dbctx.Context, userID uuid.UUID, lessonRef string, limit int) ([]*types.LessonAttempt, error) {
	out := []*types.LessonAttempt{}
	if userID == uuid.Nil || strings.TrimSpace(lessonRef) == "" {
		return out, nil
	}
	if limit <= 0 {
		limit = 500
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND lesson_ref = ?", userID, lessonRef).
		Order("created_at ASC, attempt_no ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonAttemptRepo) CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	var n int64
	if userID == uuid.Nil {
		return 0, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.LessonAttempt{}).
		Where("user_id = ?", userID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
