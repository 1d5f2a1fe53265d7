package learning

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Lesson is published content owned by the content store. The progress core only reads it.
type Lesson struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Ref       string        `gorm:"column:ref;not null;uniqueIndex" json:"ref"`
	ModuleRef string        `gorm:"column:module_ref;not null;index:idx_lesson_module_order,priority:1" json:"module_ref"`
	Order     int           `gorm:"column:lesson_order;not null;index:idx_lesson_module_order,priority:2" json:"order"`
	Title     string        `gorm:"column:title" json:"title"`
	Published bool          `gorm:"column:published;not null;default:false" json:"published"`
	Tasks     []*LessonTask `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
	CreatedAt time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time     `gorm:"not null" json:"updated_at"`
}

func (Lesson) TableName() string { return "lesson" }

// LessonTask is one exercise in a lesson. ValidationData is the server-only answer key and
// is excluded from every JSON encoding of the row.
type LessonTask struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	LessonID       uuid.UUID      `gorm:"type:uuid;not null;index:idx_lesson_task_ref,unique,priority:1" json:"lesson_id"`
	Position       int            `gorm:"column:position;not null" json:"position"`
	Ref            string         `gorm:"column:ref;not null;index:idx_lesson_task_ref,unique,priority:2" json:"ref"`
	Type           string         `gorm:"column:type;not null" json:"type"`
	PublicData     datatypes.JSON `gorm:"column:public_data" json:"public_data"`
	ValidationData datatypes.JSON `gorm:"column:validation_data" json:"-"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
}

func (LessonTask) TableName() string { return "lesson_task" }

// TaskByRef returns the task with ref and its index within the lesson.
func (l *Lesson) TaskByRef(ref string) (*LessonTask, int, bool) {
	if l == nil {
		return nil, -1, false
	}
	for i, t := range l.Tasks {
		if t != nil && t.Ref == ref {
			return t, i, true
		}
	}
	return nil, -1, false
}

// LastTask returns tasks[len-1], the only task allowed to complete the lesson.
func (l *Lesson) LastTask() (*LessonTask, int, bool) {
	if l == nil || len(l.Tasks) == 0 {
		return nil, -1, false
	}
	i := len(l.Tasks) - 1
	return l.Tasks[i], i, l.Tasks[i] != nil
}

// ModuleRefOf derives a module ref from the first two dot segments of a lesson ref.
func ModuleRefOf(lessonRef string) string {
	parts := strings.Split(strings.TrimSpace(lessonRef), ".")
	if len(parts) < 2 {
		return strings.TrimSpace(lessonRef)
	}
	return parts[0] + "." + parts[1]
}
