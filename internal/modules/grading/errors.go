package grading

import (
	"errors"
	"fmt"
)

var (
	ErrLessonNotFound = errors.New("lesson not found")
	ErrTaskNotFound   = errors.New("task not found")
)

// ValidationDataError means the task's content cannot be graded. It is a content defect,
// never an incorrect answer.
type ValidationDataError struct {
	TaskRef string
	Type    TaskType
	Reason  string
}

func (e *ValidationDataError) Error() string {
	return fmt.Sprintf("validation data missing for task %q (%s): %s", e.TaskRef, e.Type, e.Reason)
}

type UnsupportedTaskTypeError struct {
	TaskRef string
	Type    string
}

func (e *UnsupportedTaskTypeError) Error() string {
	return fmt.Sprintf("unsupported task type %q for task %q", e.Type, e.TaskRef)
}

// ErrorKind names err for metrics and API error codes.
func ErrorKind(err error) string {
	var vde *ValidationDataError
	var ute *UnsupportedTaskTypeError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrLessonNotFound):
		return "lesson_not_found"
	case errors.Is(err, ErrTaskNotFound):
		return "task_not_found"
	case errors.As(err, &vde):
		return "validation_data_missing"
	case errors.As(err, &ute):
		return "unsupported_task_type"
	default:
		return "internal"
	}
}
