package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/kidwise/api/internal/models"
)

const (
	templateColumns = `id, user_id, title, type, age_group, goal, child_emotion, tone, language, plan, created_at, updated_at`

	createTemplateQuery = `
		INSERT INTO plan_templates (id, user_id, title, type, age_group, goal, child_emotion, tone, language, plan)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`
	listTemplatesQuery  = `SELECT ` + templateColumns + ` FROM plan_templates WHERE user_id = $1 ORDER BY created_at DESC`
	getTemplateQuery    = `SELECT ` + templateColumns + ` FROM plan_templates WHERE id = $1 AND user_id = $2`
	deleteTemplateQuery = `DELETE FROM plan_templates WHERE id = $1 AND user_id = $2`
)

type pgPlanRepository struct {
	db DBTX
}

func NewPlanRepository(db DBTX) *pgPlanRepository {
	return &pgPlanRepository{db: db}
}

func (r *pgPlanRepository) Create(ctx context.Context, t *models.PlanTemplate) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx, createTemplateQuery,
		t.ID, t.UserID, t.Title, t.Type, t.AgeGroup, t.Goal, t.ChildEmotion, t.Tone, t.Language, t.Plan,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create plan template: %w", err)
	}
	return nil
}

func (r *pgPlanRepository) List(ctx context.Context, userID uuid.UUID) ([]*models.PlanTemplate, error) {
	templates := []*models.PlanTemplate{}
	if err := pgxscan.Select(ctx, r.db, &templates, listTemplatesQuery, userID); err != nil {
		return nil, fmt.Errorf("failed to list plan templates: %w", err)
	}
	return templates, nil
}

func (r *pgPlanRepository) Get(ctx context.Context, userID, id uuid.UUID) (*models.PlanTemplate, error) {
	var t models.PlanTemplate
	if err := pgxscan.Get(ctx, r.db, &t, getTemplateQuery, id, userID); err != nil {
		if notFound(err) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get plan template: %w", err)
	}
	return &t, nil
}

func (r *pgPlanRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := affectedOne(r.db.Exec(ctx, deleteTemplateQuery, id, userID)); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete plan template: %w", err)
	}
	return nil
}
