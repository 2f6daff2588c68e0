package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/packworks/packworks/internal/domain"
)

// UserRepository implements user persistence for PostgreSQL
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// UpsertUser inserts a new user or updates an existing one. A new user's
// generated id is written back to the struct.
func (r *UserRepository) UpsertUser(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		query := `
			INSERT INTO users (username, created_at, updated_at)
			VALUES ($1, NOW(), NOW())
			RETURNING user_id, created_at
		`
		if err := r.db.QueryRow(ctx, query, user.Username).Scan(&user.ID, &user.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert user: %w", err)
		}
		return nil
	}

	query := `
		UPDATE users
		SET username = $1, updated_at = NOW()
		WHERE user_id = $2
	`
	tag, err := r.db.Exec(ctx, query, user.Username, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// GetUserByUsername retrieves a user by username
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT user_id, username, created_at
		FROM users
		WHERE username = $1
	`
	var user domain.User
	err := r.db.QueryRow(ctx, query, username).Scan(&user.ID, &user.Username, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}
