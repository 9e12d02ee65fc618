package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/kidwise/api/internal/models"
)

const (
	insertGenerationLogQuery = `
		INSERT INTO generation_logs (id, user_id, kind, provider, success, error_kind, latency_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	summarizeGenerationLogsQuery = `
		SELECT kind,
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE NOT success) AS failed,
			COALESCE(AVG(latency_ms), 0)::float8 AS avg_latency_ms
		FROM generation_logs
		WHERE user_id = $1 AND created_at >= $2
		GROUP BY kind
		ORDER BY kind
	`
)

type pgGenerationLogRepository struct {
	db DBTX
}

func NewGenerationLogRepository(db DBTX) *pgGenerationLogRepository {
	return &pgGenerationLogRepository{db: db}
}

func (r *pgGenerationLogRepository) Insert(ctx context.Context, l *models.GenerationLog) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx, insertGenerationLogQuery,
		l.ID, l.UserID, l.Kind, l.Provider, l.Success, l.ErrorKind, l.LatencyMs,
	).Scan(&l.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert generation log: %w", err)
	}
	return nil
}

func (r *pgGenerationLogRepository) Summarize(ctx context.Context, userID uuid.UUID, since time.Time) ([]models.UsageSummary, error) {
	summaries := []models.UsageSummary{}
	if err := pgxscan.Select(ctx, r.db, &summaries, summarizeGenerationLogsQuery, userID, since); err != nil {
		return nil, fmt.Errorf("failed to summarize generation logs: %w", err)
	}
	return summaries, nil
}
