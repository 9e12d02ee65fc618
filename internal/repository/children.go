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
	childColumns = `id, user_id, name, age_group, notes, created_at, updated_at`

	listChildrenQuery = `SELECT ` + childColumns + ` FROM children WHERE user_id = $1 ORDER BY created_at DESC`
	getChildQuery     = `SELECT ` + childColumns + ` FROM children WHERE id = $1 AND user_id = $2`
	createChildQuery  = `
		INSERT INTO children (id, user_id, name, age_group, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	updateChildQuery = `
		UPDATE children SET
			name = COALESCE($3, name),
			age_group = COALESCE($4, age_group),
			notes = COALESCE($5, notes),
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + childColumns
	deleteChildQuery = `DELETE FROM children WHERE id = $1 AND user_id = $2`
)

type pgChildRepository struct {
	db DBTX
}

func NewChildRepository(db DBTX) *pgChildRepository {
	return &pgChildRepository{db: db}
}

func (r *pgChildRepository) List(ctx context.Context, userID uuid.UUID) ([]*models.Child, error) {
	children := []*models.Child{}
	if err := pgxscan.Select(ctx, r.db, &children, listChildrenQuery, userID); err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}
	return children, nil
}

func (r *pgChildRepository) Get(ctx context.Context, userID, id uuid.UUID) (*models.Child, error) {
	var c models.Child
	if err := pgxscan.Get(ctx, r.db, &c, getChildQuery, id, userID); err != nil {
		if notFound(err) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get child: %w", err)
	}
	return &c, nil
}

func (r *pgChildRepository) Create(ctx context.Context, c *models.Child) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx, createChildQuery, c.ID, c.UserID, c.Name, c.AgeGroup, c.Notes).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create child: %w", err)
	}
	return nil
}

func (r *pgChildRepository) Update(ctx context.Context, userID, id uuid.UUID, upd models.ChildUpdate) (*models.Child, error) {
	var c models.Child
	err := pgxscan.Get(ctx, r.db, &c, updateChildQuery, id, userID, upd.Name, upd.AgeGroup, upd.Notes)
	if err != nil {
		if notFound(err) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update child: %w", err)
	}
	return &c, nil
}

func (r *pgChildRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := affectedOne(r.db.Exec(ctx, deleteChildQuery, id, userID)); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete child: %w", err)
	}
	return nil
}
