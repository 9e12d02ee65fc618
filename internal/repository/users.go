package repository

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/kidwise/api/internal/models"
)

const (
	userColumns = `id, email, name, password_hash, created_at, updated_at`

	createUserQuery = `
		INSERT INTO users (id, email, name, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	getUserByEmailQuery = `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	getUserByIDQuery    = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
)

type pgUserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *pgUserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) Create(ctx context.Context, u *models.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx, createUserQuery, u.ID, u.Email, u.Name, u.PasswordHash).
		Scan(&u.CreatedAt, &u.UpdatedAt)
	if isUniqueViolation(err) {
		return models.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *pgUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.get(ctx, getUserByEmailQuery, email)
}

func (r *pgUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.get(ctx, getUserByIDQuery, id)
}

func (r *pgUserRepository) get(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	if err := pgxscan.Get(ctx, r.db, &u, query, arg); err != nil {
		if notFound(err) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}
