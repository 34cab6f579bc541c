package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"readlater/internal/domain"
	"readlater/internal/extractor"
)

type ArticleStore interface {
	Insert(ctx context.Context, article *domain.Article) error
	GetByID(ctx context.Context, id, ownerID string) (*domain.Article, error)
	GetByURL(ctx context.Context, url, ownerID string) (*domain.Article, error)
	Update(ctx context.Context, article *domain.Article) error
	Delete(ctx context.Context, id, ownerID string) error
	List(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, int, error)
}

type TagStore interface {
	GetOrCreate(ctx context.Context, tag *domain.Tag) (*domain.Tag, error)
	GetByID(ctx context.Context, id, ownerID string) (*domain.Tag, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Tag, error)
	ListByArticle(ctx context.Context, articleID string) ([]domain.Tag, error)
	UnlinkArticle(ctx context.Context, articleID string) error
	LinkArticle(ctx context.Context, articleID string, tagIDs []string) error
	Delete(ctx context.Context, id, ownerID string) error
}

type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type RefreshTokenStore interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	Consume(ctx context.Context, token string, now time.Time) (string, error)
	Revoke(ctx context.Context, token string) error
	DeleteDead(ctx context.Context, now time.Time) (int64, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ContentExtractor reports ok=false when the page is not parseable;
// it never returns an error.
type ContentExtractor interface {
	Extract(ctx context.Context, url string) (*extractor.Result, bool)
}

type EventPublisher interface {
	Publish(ctx context.Context, action string, article *domain.Article) error
	Close() error
}

// ListCache is a best-effort read cache for paged list results.
type ListCache interface {
	Get(ctx context.Context, filter domain.ArticleFilter) (*domain.Page[domain.Article], bool)
	Set(ctx context.Context, filter domain.ArticleFilter, page *domain.Page[domain.Article])
	Invalidate(ctx context.Context, ownerID string)
}
