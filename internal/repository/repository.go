// Package repository persists users, children, question sessions, plan
// templates and generation logs in PostgreSQL.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kidwise/api/internal/models"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type ChildRepository interface {
	List(ctx context.Context, userID uuid.UUID) ([]*models.Child, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Child, error)
	Create(ctx context.Context, c *models.Child) error
	Update(ctx context.Context, userID, id uuid.UUID, upd models.ChildUpdate) (*models.Child, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type QuestionRepository interface {
	Create(ctx context.Context, s *models.QuestionSession) error
	Get(ctx context.Context, userID, id uuid.UUID) (*models.QuestionSession, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.QuestionSession, error)
	Count(ctx context.Context, userID uuid.UUID) (int64, error)
	AppendFollowUp(ctx context.Context, userID, id uuid.UUID, f models.FollowUp) error
	AppendFeedback(ctx context.Context, userID, id uuid.UUID, f models.Feedback) error
}

type PlanRepository interface {
	Create(ctx context.Context, t *models.PlanTemplate) error
	List(ctx context.Context, userID uuid.UUID) ([]*models.PlanTemplate, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.PlanTemplate, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type GenerationLogRepository interface {
	Insert(ctx context.Context, l *models.GenerationLog) error
	Summarize(ctx context.Context, userID uuid.UUID, since time.Time) ([]models.UsageSummary, error)
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func notFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// affectedOne maps an UPDATE or DELETE that touched no rows to ErrNotFound.
func affectedOne(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
