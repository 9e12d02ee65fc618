package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kidwise/api/internal/content"
	"github.com/kidwise/api/internal/eventbus"
	"github.com/kidwise/api/internal/middleware"
	"github.com/kidwise/api/internal/models"
	"github.com/kidwise/api/internal/repository"
	"go.uber.org/zap"
)

// PlanHandler generates routines and scripts and manages saved templates
type PlanHandler struct {
	generator content.Generator
	plans     repository.PlanRepository
	usage     UsageRecorder
	events    EventPublisher
	logger    *zap.Logger
}

func NewPlanHandler(
	generator content.Generator,
	plans repository.PlanRepository,
	usage UsageRecorder,
	events EventPublisher,
	logger *zap.Logger,
) *PlanHandler {
	return &PlanHandler{
		generator: generator,
		plans:     plans,
		usage:     usage,
		events:    events,
		logger:    logger,
	}
}

type GeneratePlanRequest struct {
	Type         string `json:"type" binding:"required,oneof=daily_routine bedtime_script screen_time_plan tricky_moment_script"`
	AgeGroup     string `json:"ageGroup" binding:"required,oneof=3-5 6-8 9-12"`
	Goal         string `json:"goal" binding:"required,min=5,max=300"`
	ChildEmotion string `json:"childEmotion" binding:"max=50"`
	Tone         string `json:"tone" binding:"omitempty,oneof=supportive concise"`
	Language     string `json:"language" binding:"max=20"`
	Title        string `json:"title" binding:"omitempty,min=3,max=120"`
	SaveTemplate bool   `json:"saveTemplate"`
}

type GeneratePlanResponse struct {
	Plan       *content.PlanContent `json:"plan"`
	Saved      bool                 `json:"saved"`
	TemplateID *uuid.UUID           `json:"templateId,omitempty"`
}

// Generate godoc
// @Summary Generate a routine or script
// @Tags plans
// @Accept json
// @Produce json
// @Param body body GeneratePlanRequest true "Plan request"
// @Success 200 {object} GeneratePlanResponse
// @Failure 400 {object} middleware.APIError
// @Failure 502 {object} middleware.APIError
// @Failure 503 {object} middleware.APIError
// @Router /api/plans/generate [post]
func (h *PlanHandler) Generate(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondValidationError(c, err)
		return
	}

	planReq := content.PlanRequest{
		Type:     content.PlanType(req.Type),
		AgeBand:  content.AgeBand(req.AgeGroup),
		Goal:     strings.TrimSpace(req.Goal),
		Emotion:  strings.TrimSpace(req.ChildEmotion),
		Tone:     content.Tone(req.Tone).Normalize(),
		Language: content.LanguageOrDefault(req.Language),
	}

	ctx := c.Request.Context()
	started := time.Now()
	plan, err := h.generator.GeneratePlanContent(ctx, planReq)
	h.usage.RecordGeneration(ctx, userID, models.GenerationPlan, started, err)
	if err != nil {
		h.logger.Warn("plan generation failed", zap.String("plan_type", req.Type), zap.Error(err))
		middleware.RespondAIError(c, err)
		return
	}

	resp := GeneratePlanResponse{Plan: plan}
	if req.SaveTemplate {
		title := strings.TrimSpace(req.Title)
		if title == "" {
			title = content.DefaultTitle(planReq.Type, planReq.AgeBand)
		}
		tmpl := &models.PlanTemplate{
			UserID:       userID,
			Title:        title,
			Type:         req.Type,
			AgeGroup:     req.AgeGroup,
			Goal:         planReq.Goal,
			ChildEmotion: planReq.Emotion,
			Tone:         string(planReq.Tone),
			Language:     planReq.Language,
			Plan:         *plan,
		}
		if err := h.plans.Create(ctx, tmpl); err != nil {
			h.logger.Error("failed to save plan template", zap.Error(err))
			middleware.InternalError(c, "Failed to save plan template")
			return
		}
		resp.Saved = true
		resp.TemplateID = &tmpl.ID
	}

	h.events.Emit(ctx, eventbus.SubjectPlanGenerated, eventbus.PlanEvent{
		UserID:     userID,
		Type:       req.Type,
		AgeGroup:   req.AgeGroup,
		Saved:      resp.Saved,
		TemplateID: resp.TemplateID,
	})
	c.JSON(http.StatusOK, resp)
}

// ListTemplates godoc
// @Summary Saved plan templates, newest first
// @Tags plans
// @Produce json
// @Success 200 {array} models.PlanTemplate
// @Router /api/plans/templates [get]
func (h *PlanHandler) ListTemplates(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	templates, err := h.plans.List(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list plan templates", zap.Error(err))
		middleware.InternalError(c, "Failed to fetch templates")
		return
	}
	c.JSON(http.StatusOK, templates)
}

// GetTemplate godoc
// @Summary One saved plan template
// @Tags plans
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} models.PlanTemplate
// @Failure 404 {object} middleware.APIError
// @Router /api/plans/templates/{id} [get]
func (h *PlanHandler) GetTemplate(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	tmpl, err := h.plans.Get(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			middleware.NotFound(c, "Not found")
			return
		}
		h.logger.Error("failed to fetch plan template", zap.Error(err))
		middleware.InternalError(c, "Failed to fetch template")
		return
	}
	c.JSON(http.StatusOK, tmpl)
}

// DeleteTemplate godoc
// @Summary Delete a saved plan template
// @Tags plans
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} OKResponse
// @Failure 404 {object} middleware.APIError
// @Router /api/plans/templates/{id} [delete]
func (h *PlanHandler) DeleteTemplate(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.plans.Delete(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			middleware.NotFound(c, "Not found")
			return
		}
		h.logger.Error("failed to delete plan template", zap.Error(err))
		middleware.InternalError(c, "Failed to delete template")
		return
	}
	c.JSON(http.StatusOK, OKResponse{OK: true})
}
