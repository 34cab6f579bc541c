package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"readlater/internal/domain"
)

type RefreshTokenStore struct {
	db *sqlx.DB
}

func NewRefreshTokenStore(db *sqlx.DB) *RefreshTokenStore {
	return &RefreshTokenStore{db: db}
}

func (s *RefreshTokenStore) Create(ctx context.Context, token *domain.RefreshToken) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		`INSERT INTO refresh_tokens (token, user_id, expires_at, revoked, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		token.Token, token.UserID, token.ExpiresAt, token.Revoked, token.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

// Consume validates and revokes a token as one atomic statement, which
// is what makes the tokens one-time-use: of two concurrent refreshes
// with the same token, exactly one sees a row come back.
func (s *RefreshTokenStore) Consume(ctx context.Context, token string, now time.Time) (string, error) {
	var userID string
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &userID,
		`UPDATE refresh_tokens
		 SET revoked = TRUE
		 WHERE token = $1 AND NOT revoked AND expires_at > $2
		 RETURNING user_id`,
		token, now)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrUnauthorized
	}
	if err != nil {
		return "", fmt.Errorf("consume refresh token: %w", err)
	}
	return userID, nil
}

// Revoke marks a token revoked. Unknown and already-revoked tokens are
// not an error: logout is idempotent.
func (s *RefreshTokenStore) Revoke(ctx context.Context, token string) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1", token)
	return err
}

// DeleteDead prunes tokens that can never be consumed again.
func (s *RefreshTokenStore) DeleteDead(ctx context.Context, now time.Time) (int64, error) {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		"DELETE FROM refresh_tokens WHERE revoked OR expires_at <= $1", now)
	if err != nil {
		return 0, fmt.Errorf("delete dead tokens: %w", err)
	}
	return res.RowsAffected()
}
