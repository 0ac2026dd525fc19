package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/edutainment-backend/internal/data/aggregates"
	types "github.com/yungbote/edutainment-backend/internal/domain"
	"github.com/yungbote/edutainment-backend/internal/http/response"
	"github.com/yungbote/edutainment-backend/internal/platform/apierr"
	"github.com/yungbote/edutainment-backend/internal/platform/ctxutil"
	"github.com/yungbote/edutainment-backend/internal/platform/logger"
)

type ProgressRecorder interface {
	Record(ctx context.Context, lessonID, sessionID uuid.UUID, lessonComplete, answerCorrect bool) (*types.LessonCompletion, error)
}

type ProgressHandler struct {
	log      *logger.Logger
	progress ProgressRecorder
}

func NewProgressHandler(log *logger.Logger, progress ProgressRecorder) *ProgressHandler {
	return &ProgressHandler{log: log.With("handler", "ProgressHandler"), progress: progress}
}

type progressRequest struct {
	LessonID       string `json:"lessonId" binding:"required"`
	SessionID      string `json:"sessionId" binding:"required"`
	LessonComplete bool   `json:"lessonComplete"`
	AnswerCorrect  bool   `json:"answerCorrect"`
}

// POST /lesson-progress
func (h *ProgressHandler) Record(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, apierr.BadRequest(err))
		return
	}
	lessonID, err := uuid.Parse(req.LessonID)
	if err != nil {
		response.RespondAPIError(c, apierr.BadRequest(err))
		return
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		response.RespondAPIError(c, apierr.BadRequest(err))
		return
	}
	ctxutil.SetSessionID(c.Request.Context(), sessionID.String())

	row, err := h.progress.Record(c.Request.Context(), lessonID, sessionID, req.LessonComplete, req.AnswerCorrect)
	switch {
	case errors.Is(err, aggregates.ErrNotFound):
		response.RespondAPIError(c, apierr.NotFound(err))
		return
	case errors.Is(err, aggregates.ErrValidation):
		response.RespondAPIError(c, apierr.BadRequest(err))
		return
	case err != nil:
		h.log.Error("record progress failed", append(ctxutil.LogFields(c.Request.Context()), "lesson_id", lessonID, "error", err)...)
		response.RespondAPIError(c, apierr.Internal(err))
		return
	}
	response.RespondOK(c, row)
}
