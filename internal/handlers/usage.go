package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kidwise/api/internal/middleware"
	"github.com/kidwise/api/internal/models"
	"go.uber.org/zap"
)

type UsageReporter interface {
	Summary(ctx context.Context, userID uuid.UUID, window time.Duration) ([]models.UsageSummary, error)
}

type UsageHandler struct {
	usage  UsageReporter
	logger *zap.Logger
}

func NewUsageHandler(usage UsageReporter, logger *zap.Logger) *UsageHandler {
	return &UsageHandler{usage: usage, logger: logger}
}

type UsageQuery struct {
	Days int `form:"days,default=30" binding:"min=1,max=365"`
}

type UsageResponse struct {
	Days  int                   `json:"days"`
	Kinds []models.UsageSummary `json:"kinds"`
}

// Summary godoc
// @Summary AI generation usage for the current user
// @Tags usage
// @Produce json
// @Param days query int false "Window in days" default(30)
// @Success 200 {object} UsageResponse
// @Router /api/usage [get]
func (h *UsageHandler) Summary(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var q UsageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.RespondValidationError(c, err)
		return
	}

	kinds, err := h.usage.Summary(c.Request.Context(), userID, time.Duration(q.Days)*24*time.Hour)
	if err != nil {
		h.logger.Error("failed to summarize usage", zap.Error(err))
		middleware.RespondError(c, http.StatusInternalServerError, middleware.ErrCodeDatabaseError, "Failed to fetch usage")
		return
	}
	c.JSON(http.StatusOK, UsageResponse{Days: q.Days, Kinds: kinds})
}
