package postgres

import (
	"context"
	"fmt"

	"jobtrack/internal/models"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Insert stores a new user. A taken email yields ErrDuplicate.
func (r *UserRepository) Insert(ctx context.Context, u *models.User) error {
	err := r.db.Querier(ctx).GetContext(ctx, u, `
		INSERT INTO users (email, hashed_password)
		VALUES ($1, $2)
		RETURNING id, email, hashed_password, created_at`, u.Email, u.HashedPassword)
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.Querier(ctx).GetContext(ctx, &u,
		`SELECT id, email, hashed_password, created_at FROM users WHERE email = $1`, email)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := r.db.Querier(ctx).GetContext(ctx, &u,
		`SELECT id, email, hashed_password, created_at FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// Delete removes the user. Companies, applications and activity logs cascade.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Querier(ctx).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireRow(res)
}
