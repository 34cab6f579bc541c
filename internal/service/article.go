package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"readlater/internal/domain"
	"readlater/internal/extractor"
)

const (
	EventArticleSaved   = "article.saved"
	EventArticleDeleted = "article.deleted"
)

type ArticleService struct {
	articles  ArticleStore
	tags      TagStore
	extractor ContentExtractor
	txManager TransactionManager
	publisher EventPublisher
	cache     ListCache
	logger    *slog.Logger
}

func NewArticleService(
	articles ArticleStore,
	tags TagStore,
	contentExtractor ContentExtractor,
	txManager TransactionManager,
	publisher EventPublisher,
	cache ListCache,
	logger *slog.Logger,
) *ArticleService {
	return &ArticleService{
		articles:  articles,
		tags:      tags,
		extractor: contentExtractor,
		txManager: txManager,
		publisher: publisher,
		cache:     cache,
		logger:    logger.With("component", "articles"),
	}
}

// Save ingests a URL for the owner. Saving an already-saved URL returns
// the existing record untouched with created=false; nothing is
// re-fetched. Extraction failure degrades the article to link-only mode
// but never fails the save.
func (s *ArticleService) Save(ctx context.Context, ownerID, rawURL, title string) (*domain.Article, bool, error) {
	rawURL = strings.TrimSpace(rawURL)
	if err := validateURL(rawURL); err != nil {
		return nil, false, err
	}

	existing, err := s.articles.GetByURL(ctx, rawURL, ownerID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, fmt.Errorf("lookup article by url: %w", err)
	}

	article := &domain.Article{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		URL:     rawURL,
		Domain:  domainOf(rawURL),
		SavedAt: time.Now().UTC(),
	}

	result, ok := s.extractor.Extract(ctx, rawURL)
	if ok {
		s.applyExtraction(article, result, title)
	} else {
		article.Title = fallbackTitle(title, rawURL)
		s.logger.Info("extraction failed, saving link-only", "url", rawURL)
	}

	if err := s.articles.Insert(ctx, article); err != nil {
		// A concurrent save of the same URL can slip past the lookup
		// above; the unique constraint catches it and the winner's row
		// is returned as a duplicate.
		if errors.Is(err, domain.ErrConflict) {
			existing, ferr := s.articles.GetByURL(ctx, rawURL, ownerID)
			if ferr != nil {
				return nil, false, fmt.Errorf("fetch article after conflict: %w", ferr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("insert article: %w", err)
	}

	s.invalidate(ctx, ownerID)
	s.publish(ctx, EventArticleSaved, article)

	s.logger.Info("article saved",
		"article_id", article.ID,
		"domain", article.Domain,
		"parsed", article.IsParsed,
		"word_count", article.WordCount,
	)

	return article, true, nil
}

func (s *ArticleService) applyExtraction(article *domain.Article, result *extractor.Result, callerTitle string) {
	article.Title = result.Title
	if article.Title == "" {
		article.Title = fallbackTitle(callerTitle, article.URL)
	}
	article.Title = truncate(article.Title, domain.MaxTitleLength)
	if result.Author != "" {
		article.Author = &result.Author
	}
	if result.Content != "" {
		article.Content = &result.Content
	}
	if result.Excerpt != "" {
		article.Excerpt = &result.Excerpt
	}
	if result.ImageURL != "" {
		article.ImageURL = &result.ImageURL
	}
	article.WordCount = result.WordCount
	article.ReadingTime = extractor.ReadingTime(result.WordCount)
	article.IsParsed = true
}

func (s *ArticleService) Get(ctx context.Context, id, ownerID string) (*domain.Article, error) {
	return s.articles.GetByID(ctx, id, ownerID)
}

func (s *ArticleService) List(ctx context.Context, filter domain.ArticleFilter) (*domain.Page[domain.Article], error) {
	filter = filter.Normalize()

	if s.cache != nil {
		if page, ok := s.cache.Get(ctx, filter); ok {
			return page, nil
		}
	}

	items, total, err := s.articles.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	page := &domain.Page[domain.Article]{
		Items:      items,
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
	}

	if s.cache != nil {
		s.cache.Set(ctx, filter, page)
	}

	return page, nil
}

// Delete removes the article and its tag associations in one
// transaction. Tags themselves are owner vocabulary and stay.
func (s *ArticleService) Delete(ctx context.Context, id, ownerID string) error {
	article, err := s.articles.GetByID(ctx, id, ownerID)
	if err != nil {
		return err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.tags.UnlinkArticle(txCtx, id); err != nil {
			return fmt.Errorf("unlink tags: %w", err)
		}
		return s.articles.Delete(txCtx, id, ownerID)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, ownerID)
	s.publish(ctx, EventArticleDeleted, article)
	return nil
}

func (s *ArticleService) ToggleRead(ctx context.Context, id, ownerID string) error {
	return s.toggle(ctx, id, ownerID, func(a *domain.Article) {
		a.IsRead = !a.IsRead
		if a.IsRead {
			now := time.Now().UTC()
			a.ReadAt = &now
		} else {
			a.ReadAt = nil
		}
	})
}

func (s *ArticleService) ToggleArchive(ctx context.Context, id, ownerID string) error {
	return s.toggle(ctx, id, ownerID, func(a *domain.Article) {
		a.IsArchived = !a.IsArchived
		if a.IsArchived {
			now := time.Now().UTC()
			a.ArchivedAt = &now
		} else {
			a.ArchivedAt = nil
		}
	})
}

func (s *ArticleService) ToggleFavorite(ctx context.Context, id, ownerID string) error {
	return s.toggle(ctx, id, ownerID, func(a *domain.Article) {
		a.IsFavorite = !a.IsFavorite
	})
}

func (s *ArticleService) toggle(ctx context.Context, id, ownerID string, mutate func(*domain.Article)) error {
	article, err := s.articles.GetByID(ctx, id, ownerID)
	if err != nil {
		return err
	}

	mutate(article)

	if err := s.articles.Update(ctx, article); err != nil {
		return err
	}

	s.invalidate(ctx, ownerID)
	return nil
}

func (s *ArticleService) invalidate(ctx context.Context, ownerID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, ownerID)
	}
}

func (s *ArticleService) publish(ctx context.Context, action string, article *domain.Article) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, action, article); err != nil {
		s.logger.Warn("publish event failed", "action", action, "article_id", article.ID, "error", err)
	}
}

func validateURL(rawURL string) error {
	if rawURL == "" || utf8.RuneCountInString(rawURL) > domain.MaxURLLength {
		return fmt.Errorf("%w: url must be 1-%d characters", domain.ErrInvalidInput, domain.MaxURLLength)
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return fmt.Errorf("%w: url must be absolute", domain.ErrInvalidInput)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: url scheme must be http or https", domain.ErrInvalidInput)
	}
	return nil
}

func domainOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	return truncate(host, domain.MaxDomainLength)
}

func fallbackTitle(title, rawURL string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = rawURL
	}
	return truncate(title, domain.MaxTitleLength)
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
