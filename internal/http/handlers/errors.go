package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/lingua-backend/internal/domain/aggregates"
	"github.com/yungbote/lingua-backend/internal/http/response"
	"github.com/yungbote/lingua-backend/internal/modules/grading"
	"github.com/yungbote/lingua-backend/internal/modules/progress"
	"github.com/yungbote/lingua-backend/internal/platform/apierr"
)

// toAPIError maps module and aggregate errors onto HTTP status and code.
func toAPIError(err error) *apierr.Error {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return ae
	}
	var pe *progress.PrerequisiteError
	if errors.As(err, &pe) {
		return apierr.New(http.StatusForbidden, "prerequisite_not_met", err).
			WithDetail("required_lesson", pe.RequiredLessonRef)
	}
	switch kind := grading.ErrorKind(err); kind {
	case "lesson_not_found", "task_not_found":
		return apierr.New(http.StatusNotFound, kind, err)
	case "validation_data_missing", "unsupported_task_type":
		return apierr.New(http.StatusInternalServerError, kind, err)
	}
	switch {
	case errors.Is(err, progress.ErrMissingUser):
		return apierr.New(http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, progress.ErrInvalidLastTaskClaim):
		return apierr.New(http.StatusBadRequest, "invalid_last_task_claim", err)
	case errors.Is(err, progress.ErrInvalidInput):
		return apierr.New(http.StatusBadRequest, "invalid_input", err)
	}
	switch domainagg.CodeOf(err) {
	case domainagg.CodeValidation:
		return apierr.New(http.StatusBadRequest, "invalid_input", err)
	case domainagg.CodeNotFound:
		return apierr.New(http.StatusNotFound, "not_found", err)
	case domainagg.CodeConflict:
		return apierr.New(http.StatusConflict, "conflict", err)
	case domainagg.CodeRetryable:
		return apierr.New(http.StatusServiceUnavailable, "retryable", err)
	}
	return apierr.New(http.StatusInternalServerError, "internal", err)
}

func respondErr(c *gin.Context, err error) {
	ae := toAPIError(err)
	if ae.Status >= 500 {
		_ = c.Error(err)
	}
	response.RespondAPIError(c, ae)
}
