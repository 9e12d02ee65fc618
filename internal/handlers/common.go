package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kidwise/api/internal/middleware"
	"github.com/kidwise/api/internal/models"
)

// EventPublisher emits best-effort domain events.
type EventPublisher interface {
	Emit(ctx context.Context, subject string, data any)
}

// UsageRecorder logs each AI generation for the usage summary.
type UsageRecorder interface {
	RecordGeneration(ctx context.Context, userID uuid.UUID, kind models.GenerationKind, started time.Time, err error)
}

// OKResponse acknowledges a write with no payload
type OKResponse struct {
	OK bool `json:"ok"`
}

// requireUser returns the authenticated user ID, answering 401 when absent.
func requireUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.Unauthorized(c, "Not authenticated")
	}
	return userID, ok
}

// pathID parses the :id route parameter. A malformed ID cannot name a
// stored record, so it is answered as not found.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		middleware.NotFound(c, "Not found")
		return uuid.Nil, false
	}
	return id, true
}
