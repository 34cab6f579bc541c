package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"readlater/internal/auth"
	"readlater/internal/domain"
)

type AuthService struct {
	users           UserStore
	tokens          RefreshTokenStore
	tokenManager    *auth.TokenManager
	refreshTokenTTL time.Duration
	logger          *slog.Logger
}

func NewAuthService(
	users UserStore,
	tokens RefreshTokenStore,
	tokenManager *auth.TokenManager,
	refreshTokenTTL time.Duration,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:           users,
		tokens:          tokens,
		tokenManager:    tokenManager,
		refreshTokenTTL: refreshTokenTTL,
		logger:          logger.With("component", "auth"),
	}
}

type AuthResult struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresAt    time.Time   `json:"expiresAt"`
	User         domain.User `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidInput)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: an account with this email already exists", domain.ErrConflict)
		}
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return s.issuePair(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
	}

	return s.issuePair(ctx, user)
}

// Refresh rotates the token pair. The consumed token is revoked in the
// same statement that validates it, so a token can be refreshed exactly
// once; the loser of a concurrent duplicate attempt gets Unauthorized.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	userID, err := s.tokens.Consume(ctx, refreshToken, time.Now().UTC())
	if errors.Is(err, domain.ErrUnauthorized) {
		return nil, fmt.Errorf("%w: invalid or expired refresh token", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user for refresh: %w", err)
	}

	return s.issuePair(ctx, user)
}

// Logout revokes the refresh token. Unknown tokens are fine: logout
// always succeeds.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.Revoke(ctx, refreshToken)
}

func (s *AuthService) issuePair(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, expiresAt, err := s.tokenManager.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refreshToken, err := auth.NewRefreshToken()
	if err != nil {
		return nil, err
	}

	err = s.tokens.Create(ctx, &domain.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(s.refreshTokenTTL),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         *user,
	}, nil
}
