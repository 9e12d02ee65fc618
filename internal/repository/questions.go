package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/kidwise/api/internal/models"
)

const (
	sessionColumns = `id, user_id, child_id, question, age_group, child_emotion, tone, language,
		analysis, answer, final_answer, parent_tips, story, activities,
		safety_flag, safety_notes, safe_answer, follow_ups, feedback, created_at, updated_at`

	createSessionQuery = `
		INSERT INTO question_sessions (
			id, user_id, child_id, question, age_group, child_emotion, tone, language,
			analysis, answer, final_answer, parent_tips, story, activities,
			safety_flag, safety_notes, safe_answer, follow_ups, feedback
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING created_at, updated_at
	`
	getSessionQuery   = `SELECT ` + sessionColumns + ` FROM question_sessions WHERE id = $1 AND user_id = $2`
	listSessionsQuery = `
		SELECT ` + sessionColumns + ` FROM question_sessions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	countSessionsQuery  = `SELECT COUNT(*) FROM question_sessions WHERE user_id = $1`
	appendFollowUpQuery = `
		UPDATE question_sessions
		SET follow_ups = follow_ups || jsonb_build_array($3::jsonb), updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`
	appendFeedbackQuery = `
		UPDATE question_sessions
		SET feedback = feedback || jsonb_build_array($3::jsonb), updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`
)

type pgQuestionRepository struct {
	db DBTX
}

func NewQuestionRepository(db DBTX) *pgQuestionRepository {
	return &pgQuestionRepository{db: db}
}

func (r *pgQuestionRepository) Create(ctx context.Context, s *models.QuestionSession) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.FollowUps == nil {
		s.FollowUps = []models.FollowUp{}
	}
	if s.Feedback == nil {
		s.Feedback = []models.Feedback{}
	}
	err := r.db.QueryRow(ctx, createSessionQuery,
		s.ID, s.UserID, s.ChildID, s.Question, s.AgeGroup, s.ChildEmotion, s.Tone, s.Language,
		s.Analysis, s.Answer, s.FinalAnswer, nonNil(s.ParentTips), s.Story, nonNil(s.Activities),
		s.SafetyFlag, nonNil(s.SafetyNotes), s.SafeAnswer, s.FollowUps, s.Feedback,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create question session: %w", err)
	}
	return nil
}

func (r *pgQuestionRepository) Get(ctx context.Context, userID, id uuid.UUID) (*models.QuestionSession, error) {
	var s models.QuestionSession
	if err := pgxscan.Get(ctx, r.db, &s, getSessionQuery, id, userID); err != nil {
		if notFound(err) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get question session: %w", err)
	}
	return &s, nil
}

func (r *pgQuestionRepository) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.QuestionSession, error) {
	sessions := []*models.QuestionSession{}
	if err := pgxscan.Select(ctx, r.db, &sessions, listSessionsQuery, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list question sessions: %w", err)
	}
	return sessions, nil
}

func (r *pgQuestionRepository) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, countSessionsQuery, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count question sessions: %w", err)
	}
	return n, nil
}

func (r *pgQuestionRepository) AppendFollowUp(ctx context.Context, userID, id uuid.UUID, f models.FollowUp) error {
	return r.appendJSON(ctx, appendFollowUpQuery, userID, id, f)
}

func (r *pgQuestionRepository) AppendFeedback(ctx context.Context, userID, id uuid.UUID, f models.Feedback) error {
	return r.appendJSON(ctx, appendFeedbackQuery, userID, id, f)
}

func (r *pgQuestionRepository) appendJSON(ctx context.Context, query string, userID, id uuid.UUID, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode entry: %w", err)
	}
	if err := affectedOne(r.db.Exec(ctx, query, id, userID, string(payload))); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to update question session: %w", err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
