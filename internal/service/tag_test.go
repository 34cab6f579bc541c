package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"readlater/internal/domain"
	"readlater/internal/service/mocks"
)

type TagServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	tags      *mocks.MockTagStore
	articles  *mocks.MockArticleStore
	txManager *mocks.MockTransactionManager
	cache     *mocks.MockListCache

	service *TagService
}

func (s *TagServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.tags = mocks.NewMockTagStore(s.ctrl)
	s.articles = mocks.NewMockArticleStore(s.ctrl)
	s.txManager = mocks.NewMockTransactionManager(s.ctrl)
	s.cache = mocks.NewMockListCache(s.ctrl)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	s.service = NewTagService(s.tags, s.articles, s.txManager, s.cache, logger)
}

func (s *TagServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestTagServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TagServiceTestSuite))
}

func (s *TagServiceTestSuite) expectTransaction(ctx context.Context) {
	s.txManager.EXPECT().WithTransaction(ctx, gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	)
}

func (s *TagServiceTestSuite) TestSetArticleTags_NormalizesAndDeduplicates() {
	ctx := context.Background()
	article := &domain.Article{ID: "a-1", OwnerID: "owner-1"}

	s.articles.EXPECT().GetByID(ctx, "a-1", "owner-1").Return(article, nil)
	s.expectTransaction(ctx)
	s.tags.EXPECT().UnlinkArticle(ctx, "a-1").Return(nil)

	var created []string
	s.tags.EXPECT().GetOrCreate(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, tag *domain.Tag) (*domain.Tag, error) {
			created = append(created, tag.Name)
			return tag, nil
		},
	).Times(2)
	s.tags.EXPECT().LinkArticle(ctx, "a-1", gomock.Any()).Return(nil)
	s.cache.EXPECT().Invalidate(ctx, "owner-1")
	s.tags.EXPECT().ListByArticle(ctx, "a-1").Return([]domain.Tag{
		{Name: "a"}, {Name: "b"},
	}, nil)

	tags, err := s.service.SetArticleTags(ctx, "a-1", "owner-1", []string{"A", " a ", "b"})

	s.NoError(err)
	s.Equal([]string{"a", "b"}, created)
	s.Len(tags, 2)
}

func (s *TagServiceTestSuite) TestSetArticleTags_CapsAtTen() {
	ctx := context.Background()
	article := &domain.Article{ID: "a-1", OwnerID: "owner-1"}

	names := make([]string, 12)
	for i := range names {
		names[i] = fmt.Sprintf("tag-%d", i)
	}

	s.articles.EXPECT().GetByID(ctx, "a-1", "owner-1").Return(article, nil)
	s.expectTransaction(ctx)
	s.tags.EXPECT().UnlinkArticle(ctx, "a-1").Return(nil)
	s.tags.EXPECT().GetOrCreate(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, tag *domain.Tag) (*domain.Tag, error) {
			return tag, nil
		},
	).Times(10)
	s.tags.EXPECT().LinkArticle(ctx, "a-1", gomock.Len(10)).Return(nil)
	s.cache.EXPECT().Invalidate(ctx, "owner-1")
	s.tags.EXPECT().ListByArticle(ctx, "a-1").Return([]domain.Tag{}, nil)

	_, err := s.service.SetArticleTags(ctx, "a-1", "owner-1", names)
	s.NoError(err)
}

func (s *TagServiceTestSuite) TestSetArticleTags_EmptyListClearsAll() {
	ctx := context.Background()
	article := &domain.Article{ID: "a-1", OwnerID: "owner-1"}

	s.articles.EXPECT().GetByID(ctx, "a-1", "owner-1").Return(article, nil)
	s.expectTransaction(ctx)
	s.tags.EXPECT().UnlinkArticle(ctx, "a-1").Return(nil)
	s.tags.EXPECT().LinkArticle(ctx, "a-1", []string{}).Return(nil)
	s.cache.EXPECT().Invalidate(ctx, "owner-1")
	s.tags.EXPECT().ListByArticle(ctx, "a-1").Return([]domain.Tag{}, nil)

	tags, err := s.service.SetArticleTags(ctx, "a-1", "owner-1", nil)
	s.NoError(err)
	s.Empty(tags)
}

func (s *TagServiceTestSuite) TestSetArticleTags_UnknownArticle() {
	ctx := context.Background()

	s.articles.EXPECT().GetByID(ctx, "missing", "owner-1").Return(nil, domain.ErrNotFound)

	_, err := s.service.SetArticleTags(ctx, "missing", "owner-1", []string{"a"})
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *TagServiceTestSuite) TestDelete_InvalidatesCache() {
	ctx := context.Background()

	s.expectTransaction(ctx)
	s.tags.EXPECT().Delete(ctx, "t-1", "owner-1").Return(nil)
	s.cache.EXPECT().Invalidate(ctx, "owner-1")

	s.NoError(s.service.Delete(ctx, "t-1", "owner-1"))
}

func TestNormalizeTagNames(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "trims and lowercases",
			input: []string{"  Go ", "DATABASES"},
			want:  []string{"go", "databases"},
		},
		{
			name:  "drops empty and overlong",
			input: []string{"", "   ", strings.Repeat("x", 51), "ok"},
			want:  []string{"ok"},
		},
		{
			name:  "deduplicates preserving order",
			input: []string{"b", "A", "a", "B", "c"},
			want:  []string{"b", "a", "c"},
		},
		{
			name:  "nil input",
			input: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTagNames(tt.input))
		})
	}
}
