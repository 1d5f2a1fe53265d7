package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lingua-backend/internal/http/response"
	"github.com/yungbote/lingua-backend/internal/modules/grading"
	"github.com/yungbote/lingua-backend/internal/platform/logger"
)

type GradingHandler struct {
	log       *logger.Logger
	validator *grading.Validator
}

func NewGradingHandler(log *logger.Logger, validator *grading.Validator) *GradingHandler {
	return &GradingHandler{log: log.With("handler", "GradingHandler"), validator: validator}
}

type validateRequest struct {
	Answer json.RawMessage `json:"answer"`
}

// POST /api/lessons/:ref/tasks/:task_ref/validate
func (h *GradingHandler) Validate(c *gin.Context) {
	if _, ok := requestUser(c); !ok {
		return
	}
	var req validateRequest
	if !bindBody(c, &req) {
		return
	}
	res, err := h.validator.Validate(c.Request.Context(), c.Param("ref"), c.Param("task_ref"), answerText(req.Answer))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, res)
}
