package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lingua-backend/internal/http/response"
	"github.com/yungbote/lingua-backend/internal/modules/progress"
	"github.com/yungbote/lingua-backend/internal/platform/logger"
)

type ProgressHandler struct {
	log      *logger.Logger
	progress progress.Usecases
}

func NewProgressHandler(log *logger.Logger, uc progress.Usecases) *ProgressHandler {
	return &ProgressHandler{log: log.With("handler", "ProgressHandler"), progress: uc}
}

type submitRequest struct {
	Answer           json.RawMessage `json:"answer"`
	DurationMs       *int64          `json:"duration_ms,omitempty"`
	VariantKey       string          `json:"variant_key,omitempty"`
	SessionID        string          `json:"session_id,omitempty"`
	IdempotencyToken string          `json:"idempotency_token,omitempty"`
	IsLastTask       bool            `json:"is_last_task"`
	LastTaskIndex    *int            `json:"last_task_index,omitempty"`
}

// POST /api/lessons/:ref/tasks/:task_ref/submit
func (h *ProgressHandler) Submit(c *gin.Context) {
	rd, ok := requestUser(c)
	if !ok {
		return
	}
	var req submitRequest
	if !bindBody(c, &req) {
		return
	}
	out, err := h.progress.Submit(c.Request.Context(), progress.SubmitInput{
		UserID:           rd.UserID,
		LessonRef:        c.Param("ref"),
		TaskRef:          c.Param("task_ref"),
		Answer:           answerText(req.Answer),
		DurationMs:       req.DurationMs,
		VariantKey:       req.VariantKey,
		SessionID:        firstNonEmpty(req.SessionID, rd.SessionID),
		IdempotencyToken: idempotencyToken(c, req.IdempotencyToken),
		IsLastTask:       req.IsLastTask,
		LastTaskIndex:    req.LastTaskIndex,
		Timezone:         rd.Timezone,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

type recordAttemptRequest struct {
	LessonRef        string   `json:"lesson_ref"`
	TaskRef          string   `json:"task_ref"`
	IsCorrect        bool     `json:"is_correct"`
	Score            *float64 `json:"score,omitempty"`
	DurationMs       *int64   `json:"duration_ms,omitempty"`
	VariantKey       string   `json:"variant_key,omitempty"`
	SessionID        string   `json:"session_id,omitempty"`
	IdempotencyToken string   `json:"idempotency_token,omitempty"`
	IsLastTask       bool     `json:"is_last_task"`
	LastTaskIndex    *int     `json:"last_task_index,omitempty"`
	UserAnswer       string   `json:"user_answer,omitempty"`
	CorrectAnswer    string   `json:"correct_answer,omitempty"`
}

// POST /internal/attempts
func (h *ProgressHandler) RecordAttempt(c *gin.Context) {
	rd, ok := requestUser(c)
	if !ok {
		return
	}
	var req recordAttemptRequest
	if !bindBody(c, &req) {
		return
	}
	out, err := h.progress.RecordAttempt(c.Request.Context(), progress.RecordAttemptInput{
		UserID:           rd.UserID,
		LessonRef:        req.LessonRef,
		TaskRef:          req.TaskRef,
		IsCorrect:        req.IsCorrect,
		Score:            req.Score,
		DurationMs:       req.DurationMs,
		VariantKey:       req.VariantKey,
		SessionID:        firstNonEmpty(req.SessionID, rd.SessionID),
		IdempotencyToken: idempotencyToken(c, req.IdempotencyToken),
		IsLastTask:       req.IsLastTask,
		LastTaskIndex:    req.LastTaskIndex,
		UserAnswer:       req.UserAnswer,
		CorrectAnswer:    req.CorrectAnswer,
		Timezone:         rd.Timezone,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/lessons/:ref/access
func (h *ProgressHandler) Access(c *gin.Context) {
	rd, ok := requestUser(c)
	if !ok {
		return
	}
	d, err := h.progress.CanStart(c.Request.Context(), rd.UserID, c.Param("ref"))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, d)
}

// GET /api/me/progress
func (h *ProgressHandler) ListProgress(c *gin.Context) {
	rd, ok := requestUser(c)
	if !ok {
		return
	}
	rows, err := h.progress.ListLessonProgress(c.Request.Context(), rd.UserID, limitParam(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": rows})
}

// GET /api/me/xp
func (h *ProgressHandler) ListXP(c *gin.Context) {
	rd, ok := requestUser(c)
	if !ok {
		return
	}
	rows, err := h.progress.ListRecentXP(c.Request.Context(), rd.UserID, limitParam(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"entries": rows})
}

// GET /api/me/daily-stats
func (h *ProgressHandler) ListDailyStats(c *gin.Context) {
	rd, ok := requestUser(c)
	if !ok {
		return
	}
	rows, err := h.progress.ListRecentDailyStats(c.Request.Context(), rd.UserID, limitParam(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"days": rows})
}

// GET /api/me/lessons/:ref/attempts
func (h *ProgressHandler) ListLessonAttempts(c *gin.Context) {
	rd, ok := requestUser(c)
	if !ok {
		return
	}
	rows, err := h.progress.ListLessonAttempts(c.Request.Context(), rd.UserID, c.Param("ref"), limitParam(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"attempts": rows})
}

// GET /api/me/summary
func (h *ProgressHandler) Summary(c *gin.Context) {
	rd, ok := requestUser(c)
	if !ok {
		return
	}
	s, err := h.progress.Summary(c.Request.Context(), rd.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, s)
}

type timezoneRequest struct {
	Timezone string `json:"timezone"`
}

// PUT /api/me/timezone
func (h *ProgressHandler) SetTimezone(c *gin.Context) {
	rd, ok := requestUser(c)
	if !ok {
		return
	}
	var req timezoneRequest
	if !bindBody(c, &req) {
		return
	}
	tz := strings.TrimSpace(req.Timezone)
	if err := h.progress.SetTimezone(c.Request.Context(), rd.UserID, tz); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timezone": tz})
}
