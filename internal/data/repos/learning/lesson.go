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

// LessonRepo reads published lesson content. Upsert exists for content import and tests;
// the progress core never writes lessons.
type LessonRepo interface {
	GetPublishedByRef(dbc dbctx.Context, ref string) (*types.Lesson, error)
	GetPublishedByModuleAndOrder(dbc dbctx.Context, moduleRef string, order int) (*types.Lesson, error)
	Upsert(dbc dbctx.Context, lesson *types.Lesson) (*types.Lesson, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	repoLog := baseLog.With("repo", "LessonRepo")
	return &lessonRepo{db: db, log: repoLog}
}

func (r *lessonRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func orderedTasks(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *lessonRepo) GetPublishedByRef(dbc dbctx.Context, ref string) (*types.Lesson, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, nil
	}
	var out types.Lesson
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Preload("Tasks", orderedTasks).
		Where("ref = ? AND published = ?", ref, true).
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *lessonRepo) GetPublishedByModuleAndOrder(dbc dbctx.Context, moduleRef string, order int) (*types.Lesson, error) {
	moduleRef = strings.TrimSpace(moduleRef)
	if moduleRef == "" {
		return nil, nil
	}
	var out types.Lesson
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Preload("Tasks", orderedTasks).
		Where("module_ref = ? AND lesson_order = ? AND published = ?", moduleRef, order, true).
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Upsert writes the lesson by ref and replaces its task list.
func (r *lessonRepo) Upsert(dbc dbctx.Context, lesson *types.Lesson) (*types.Lesson, error) {
	if lesson == nil || strings.TrimSpace(lesson.Ref) == "" {
		return nil, fmt.Errorf("lesson ref required")
	}
	write := func(tx *gorm.DB) error {
		now := time.Now().UTC()
		var existing types.Lesson
		err := tx.Where("ref = ?", lesson.Ref).Take(&existing).Error
		exists := err == nil
		switch {
		case exists:
			lesson.ID = existing.ID
			lesson.CreatedAt = existing.CreatedAt
		case errors.Is(err, gorm.ErrRecordNotFound):
			if lesson.ID == uuid.Nil {
				lesson.ID = uuid.New()
			}
			lesson.CreatedAt = now
		default:
			return err
		}
		if strings.TrimSpace(lesson.ModuleRef) == "" {
			lesson.ModuleRef = types.ModuleRefOf(lesson.Ref)
		}
		lesson.UpdatedAt = now

		tasks := make([]*types.LessonTask, 0, len(lesson.Tasks))
		for _, t := range lesson.Tasks {
			if t != nil {
				tasks = append(tasks, t)
			}
		}
		if exists {
			err = tx.Omit("Tasks").Save(lesson).Error
		} else {
			err = tx.Omit("Tasks").Create(lesson).Error
		}
		if err != nil {
			return err
		}
		if err := tx.Where("lesson_id = ?", lesson.ID).Delete(&types.LessonTask{}).Error; err != nil {
			return err
		}
		for i, t := range tasks {
			t.ID = uuid.New()
			t.LessonID = lesson.ID
			t.Position = i
			t.CreatedAt = now
			t.UpdatedAt = now
		}
		if len(tasks) > 0 {
			if err := tx.Create(&tasks).Error; err != nil {
				return err
			}
		}
		lesson.Tasks = tasks
		return nil
	}

	if dbc.Tx != nil {
		if err := write(dbc.Tx.WithContext(dbc.Ctx)); err != nil {
			return nil, err
		}
		return lesson, nil
	}
	if err := r.db.WithContext(dbc.Ctx).Transaction(write); err != nil {
		r.log.Warn("lesson upsert failed", "lesson_ref", lesson.Ref, "error", err)
		return nil, err
	}
	return lesson, nil
}
