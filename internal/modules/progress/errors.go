package progress

import (
	"errors"
	"fmt"

	"github.com/yungbote/lingua-backend/internal/modules/grading"
)

var (
	// ErrLessonNotFound and ErrTaskNotFound are shared with grading so callers match one sentinel.
	ErrLessonNotFound = grading.ErrLessonNotFound
	ErrTaskNotFound   = grading.ErrTaskNotFound

	ErrInvalidLastTaskClaim = errors.New("invalid last task claim")
	ErrMissingUser          = errors.New("missing user")
	ErrInvalidInput         = errors.New("invalid input")
)

// PrerequisiteError denies an attempt until RequiredLessonRef is completed.
type PrerequisiteError struct {
	LessonRef         string
	RequiredLessonRef string
}

func (e *PrerequisiteError) Error() string {
	return fmt.Sprintf("prerequisite not met: %q requires %q", e.LessonRef, e.RequiredLessonRef)
}

func invalidClaim(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidLastTaskClaim, fmt.Sprintf(format, args...))
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
