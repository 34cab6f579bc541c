package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"readlater/internal/domain"
)

const uniqueViolation = "23505"

type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a new account. A duplicate email surfaces as
// domain.ErrConflict via the unique index rather than a prior lookup.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)",
		user.ID, user.Email, user.PasswordHash, user.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &user,
		"SELECT id, email, password_hash, created_at FROM users WHERE email = $1", email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &user,
		"SELECT id, email, password_hash, created_at FROM users WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
