package usage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kidwise/api/internal/apperr"
	"github.com/kidwise/api/internal/models"
	"github.com/kidwise/api/internal/repository"
	"go.uber.org/zap"
)

// DefaultWindow is how far back Summary looks when no window is given.
const DefaultWindow = 30 * 24 * time.Hour

// Service records AI generations per user and reports aggregated usage
type Service struct {
	logs     repository.GenerationLogRepository
	provider string
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(logs repository.GenerationLogRepository, provider string, logger *zap.Logger) *Service {
	return &Service{
		logs:     logs,
		provider: provider,
		logger:   logger,
		now:      time.Now,
	}
}

// RecordGeneration logs the outcome of one generation that began at started.
// Failures to write the log are logged and never returned to the caller.
func (s *Service) RecordGeneration(ctx context.Context, userID uuid.UUID, kind models.GenerationKind, started time.Time, genErr error) {
	entry := &models.GenerationLog{
		UserID:    userID,
		Kind:      kind,
		Provider:  s.provider,
		Success:   genErr == nil,
		LatencyMs: s.now().Sub(started).Milliseconds(),
	}
	if genErr != nil {
		if k, ok := apperr.KindOf(genErr); ok {
			entry.ErrorKind = string(k)
		} else {
			entry.ErrorKind = "internal"
		}
	}

	// The request context may already be canceled; the log still matters.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.logs.Insert(writeCtx, entry); err != nil {
		s.logger.Error("failed to record generation usage",
			zap.String("user_id", userID.String()),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}
}

// Summary aggregates the user's generations within window, per kind
func (s *Service) Summary(ctx context.Context, userID uuid.UUID, window time.Duration) ([]models.UsageSummary, error) {
	if window <= 0 {
		window = DefaultWindow
	}
	return s.logs.Summarize(ctx, userID, s.now().Add(-window))
}
