// Package cache holds a best-effort redis cache for article list
// queries. Reads fall through to the store on any miss or redis error;
// writes to an owner's articles or tags purge every cached page for
// that owner.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"readlater/internal/domain"
)

type ArticleListCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewArticleListCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *ArticleListCache {
	return &ArticleListCache{
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "cache"),
	}
}

func (c *ArticleListCache) Get(ctx context.Context, filter domain.ArticleFilter) (*domain.Page[domain.Article], bool) {
	data, err := c.client.Get(ctx, key(filter)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("cache get failed", "error", err)
		}
		return nil, false
	}

	var page domain.Page[domain.Article]
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, false
	}
	return &page, true
}

func (c *ArticleListCache) Set(ctx context.Context, filter domain.ArticleFilter, page *domain.Page[domain.Article]) {
	data, err := json.Marshal(page)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(filter), data, c.ttl).Err(); err != nil {
		c.logger.Debug("cache set failed", "error", err)
	}
}

// Invalidate purges every cached page for the owner.
func (c *ArticleListCache) Invalidate(ctx context.Context, ownerID string) {
	pattern := fmt.Sprintf("articles:%s:*", ownerID)

	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Debug("cache del failed", "key", iter.Val(), "error", err)
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Debug("cache scan failed", "error", err)
	}
}

// key escapes the free-form fields so the ":" and "," separators
// cannot occur inside a field and alias two different filters.
func key(f domain.ArticleFilter) string {
	tags := make([]string, len(f.Tags))
	for i, t := range f.Tags {
		tags[i] = url.QueryEscape(t)
	}
	return fmt.Sprintf("articles:%s:p%d:n%d:st%s:q%s:t%s",
		f.OwnerID, f.Page, f.PageSize, f.Status, url.QueryEscape(f.Search), strings.Join(tags, ","))
}
