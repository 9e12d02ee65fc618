package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kidwise/api/internal/middleware"
	"github.com/kidwise/api/internal/models"
	"github.com/kidwise/api/internal/repository"
	"go.uber.org/zap"
)

type ChildHandler struct {
	children repository.ChildRepository
	logger   *zap.Logger
}

func NewChildHandler(children repository.ChildRepository, logger *zap.Logger) *ChildHandler {
	return &ChildHandler{children: children, logger: logger}
}

type CreateChildRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	AgeGroup string `json:"ageGroup" binding:"required,oneof=3-5 6-8 9-12"`
	Notes    string `json:"notes" binding:"max=300"`
}

// UpdateChildRequest changes only the fields present in the body
type UpdateChildRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=100"`
	AgeGroup *string `json:"ageGroup" binding:"omitempty,oneof=3-5 6-8 9-12"`
	Notes    *string `json:"notes" binding:"omitempty,max=300"`
}

// List godoc
// @Summary List child profiles, newest first
// @Tags children
// @Produce json
// @Success 200 {array} models.Child
// @Router /api/children [get]
func (h *ChildHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	children, err := h.children.List(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list children", zap.Error(err))
		middleware.InternalError(c, "Failed to fetch children")
		return
	}
	c.JSON(http.StatusOK, children)
}

// Create godoc
// @Summary Add a child profile
// @Tags children
// @Accept json
// @Produce json
// @Param body body CreateChildRequest true "Child"
// @Success 201 {object} models.Child
// @Router /api/children [post]
func (h *ChildHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req CreateChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondValidationError(c, err)
		return
	}

	child := &models.Child{
		UserID:   userID,
		Name:     strings.TrimSpace(req.Name),
		AgeGroup: req.AgeGroup,
		Notes:    strings.TrimSpace(req.Notes),
	}
	if err := h.children.Create(c.Request.Context(), child); err != nil {
		h.logger.Error("failed to create child", zap.Error(err))
		middleware.InternalError(c, "Failed to create child")
		return
	}
	c.JSON(http.StatusCreated, child)
}

// Update godoc
// @Summary Update a child profile
// @Tags children
// @Accept json
// @Produce json
// @Param id path string true "Child ID"
// @Param body body UpdateChildRequest true "Fields to change"
// @Success 200 {object} models.Child
// @Failure 404 {object} middleware.APIError
// @Router /api/children/{id} [put]
func (h *ChildHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondValidationError(c, err)
		return
	}

	upd := models.ChildUpdate{AgeGroup: req.AgeGroup}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		upd.Name = &name
	}
	if req.Notes != nil {
		notes := strings.TrimSpace(*req.Notes)
		upd.Notes = &notes
	}

	child, err := h.children.Update(c.Request.Context(), userID, id, upd)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			middleware.NotFound(c, "Not found")
			return
		}
		h.logger.Error("failed to update child", zap.Error(err))
		middleware.InternalError(c, "Failed to update child")
		return
	}
	c.JSON(http.StatusOK, child)
}

// Delete godoc
// @Summary Delete a child profile
// @Tags children
// @Produce json
// @Param id path string true "Child ID"
// @Success 200 {object} OKResponse
// @Failure 404 {object} middleware.APIError
// @Router /api/children/{id} [delete]
func (h *ChildHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.children.Delete(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			middleware.NotFound(c, "Not found")
			return
		}
		h.logger.Error("failed to delete child", zap.Error(err))
		middleware.InternalError(c, "Failed to delete child")
		return
	}
	c.JSON(http.StatusOK, OKResponse{OK: true})
}
