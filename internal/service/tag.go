package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"readlater/internal/domain"
)

type TagService struct {
	tags      TagStore
	articles  ArticleStore
	txManager TransactionManager
	cache     ListCache
	logger    *slog.Logger
}

func NewTagService(
	tags TagStore,
	articles ArticleStore,
	txManager TransactionManager,
	cache ListCache,
	logger *slog.Logger,
) *TagService {
	return &TagService{
		tags:      tags,
		articles:  articles,
		txManager: txManager,
		cache:     cache,
		logger:    logger.With("component", "tags"),
	}
}

// SetArticleTags replaces the article's tag set wholesale: callers
// always submit the desired final set. Names are normalized, capped and
// resolved against the owner's existing vocabulary.
func (s *TagService) SetArticleTags(ctx context.Context, articleID, ownerID string, names []string) ([]domain.Tag, error) {
	if _, err := s.articles.GetByID(ctx, articleID, ownerID); err != nil {
		return nil, err
	}

	normalized := NormalizeTagNames(names)

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.tags.UnlinkArticle(txCtx, articleID); err != nil {
			return fmt.Errorf("unlink article: %w", err)
		}

		tagIDs := make([]string, 0, len(normalized))
		for _, name := range normalized {
			tag, err := s.tags.GetOrCreate(txCtx, &domain.Tag{
				ID:        uuid.NewString(),
				OwnerID:   ownerID,
				Name:      name,
				CreatedAt: time.Now().UTC(),
			})
			if err != nil {
				return err
			}
			tagIDs = append(tagIDs, tag.ID)
		}

		return s.tags.LinkArticle(txCtx, articleID, tagIDs)
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, ownerID)
	}

	return s.tags.ListByArticle(ctx, articleID)
}

func (s *TagService) ListForArticle(ctx context.Context, articleID, ownerID string) ([]domain.Tag, error) {
	if _, err := s.articles.GetByID(ctx, articleID, ownerID); err != nil {
		return nil, err
	}
	return s.tags.ListByArticle(ctx, articleID)
}

func (s *TagService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Tag, error) {
	return s.tags.ListByOwner(ctx, ownerID)
}

// Delete removes the tag and detaches it from every article that
// carried it; the articles themselves are unaffected.
func (s *TagService) Delete(ctx context.Context, tagID, ownerID string) error {
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.tags.Delete(txCtx, tagID, ownerID)
	})
	if err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, ownerID)
	}
	return nil
}

// NormalizeTagNames trims and lower-cases names, drops empty and
// over-long ones, removes duplicates preserving input order and caps
// the list at the per-article maximum.
func NormalizeTagNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))

	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || utf8.RuneCountInString(name) > domain.MaxTagNameLength {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
		if len(out) == domain.MaxTagsPerArticle {
			break
		}
	}

	return out
}
