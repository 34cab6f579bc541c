package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"readlater/internal/auth"
	"readlater/internal/domain"
	"readlater/internal/service/mocks"
)

type AuthServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	users  *mocks.MockUserStore
	tokens *mocks.MockRefreshTokenStore

	service *AuthService
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.users = mocks.NewMockUserStore(s.ctrl)
	s.tokens = mocks.NewMockRefreshTokenStore(s.ctrl)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	tokenManager := auth.NewTokenManager("test-secret", 15*time.Minute)

	s.service = NewAuthService(s.users, s.tokens, tokenManager, 30*24*time.Hour, logger)
}

func (s *AuthServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) TestRegister_Success() {
	ctx := context.Background()

	var createdUser *domain.User
	s.users.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, u *domain.User) error {
			createdUser = u
			return nil
		},
	)

	var storedToken *domain.RefreshToken
	s.tokens.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, t *domain.RefreshToken) error {
			storedToken = t
			return nil
		},
	)

	result, err := s.service.Register(ctx, " Reader@Example.COM ", "hunter2hunter2")

	s.NoError(err)
	s.Equal("reader@example.com", createdUser.Email)
	s.NotEqual("hunter2hunter2", createdUser.PasswordHash)
	s.NotEmpty(result.AccessToken)
	s.NotEmpty(result.RefreshToken)
	s.Equal(result.RefreshToken, storedToken.Token)
	s.Equal(createdUser.ID, storedToken.UserID)
	s.True(storedToken.ExpiresAt.After(time.Now()))
	s.Equal("reader@example.com", result.User.Email)
}

func (s *AuthServiceTestSuite) TestRegister_DuplicateEmail() {
	ctx := context.Background()

	s.users.EXPECT().Create(ctx, gomock.Any()).Return(domain.ErrConflict)

	_, err := s.service.Register(ctx, "reader@example.com", "hunter2hunter2")
	s.ErrorIs(err, domain.ErrConflict)
}

func (s *AuthServiceTestSuite) TestRegister_RejectsBadInput() {
	ctx := context.Background()

	_, err := s.service.Register(ctx, "not-an-email", "hunter2hunter2")
	s.ErrorIs(err, domain.ErrInvalidInput)

	_, err = s.service.Register(ctx, "reader@example.com", "short")
	s.ErrorIs(err, domain.ErrInvalidInput)
}

func (s *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()

	hash, err := auth.HashPassword("correct-horse")
	s.Require().NoError(err)

	user := &domain.User{ID: "u-1", Email: "reader@example.com", PasswordHash: hash}
	s.users.EXPECT().GetByEmail(ctx, "reader@example.com").Return(user, nil)
	s.tokens.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	result, err := s.service.Login(ctx, "Reader@example.com", "correct-horse")

	s.NoError(err)
	s.Equal("u-1", result.User.ID)
	s.NotEmpty(result.AccessToken)
}

func (s *AuthServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()

	hash, err := auth.HashPassword("correct-horse")
	s.Require().NoError(err)

	user := &domain.User{ID: "u-1", Email: "reader@example.com", PasswordHash: hash}
	s.users.EXPECT().GetByEmail(ctx, "reader@example.com").Return(user, nil)

	_, err = s.service.Login(ctx, "reader@example.com", "wrong")
	s.ErrorIs(err, domain.ErrUnauthorized)
}

func (s *AuthServiceTestSuite) TestLogin_UnknownEmail() {
	ctx := context.Background()

	s.users.EXPECT().GetByEmail(ctx, "ghost@example.com").Return(nil, domain.ErrNotFound)

	_, err := s.service.Login(ctx, "ghost@example.com", "whatever")
	s.ErrorIs(err, domain.ErrUnauthorized)
}

func (s *AuthServiceTestSuite) TestRefresh_RotatesPair() {
	ctx := context.Background()

	s.tokens.EXPECT().Consume(ctx, "old-token", gomock.Any()).Return("u-1", nil)
	s.users.EXPECT().GetByID(ctx, "u-1").Return(
		&domain.User{ID: "u-1", Email: "reader@example.com"}, nil)

	var newToken *domain.RefreshToken
	s.tokens.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, t *domain.RefreshToken) error {
			newToken = t
			return nil
		},
	)

	result, err := s.service.Refresh(ctx, "old-token")

	s.NoError(err)
	s.NotEqual("old-token", result.RefreshToken)
	s.Equal(result.RefreshToken, newToken.Token)
}

func (s *AuthServiceTestSuite) TestRefresh_ConsumedTokenFails() {
	ctx := context.Background()

	s.tokens.EXPECT().Consume(ctx, "used-token", gomock.Any()).Return("", domain.ErrUnauthorized)

	_, err := s.service.Refresh(ctx, "used-token")
	s.ErrorIs(err, domain.ErrUnauthorized)
}

func (s *AuthServiceTestSuite) TestLogout_Idempotent() {
	ctx := context.Background()

	s.tokens.EXPECT().Revoke(ctx, "whatever").Return(nil)

	s.NoError(s.service.Logout(ctx, "whatever"))
}
