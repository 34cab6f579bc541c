// Package extractor turns a saved URL into readable article content.
// Extraction is best-effort: every fetch or parse failure degrades the
// article to link-only mode instead of failing the save.
package extractor

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
)

// Result holds the fields extracted from a readable page.
type Result struct {
	Title     string
	Author    string
	Content   string
	Excerpt   string
	ImageURL  string
	WordCount int
}

type Extractor struct {
	client   *http.Client
	maxBytes int64
	logger   *slog.Logger
}

type Config struct {
	Timeout  time.Duration
	MaxBytes int64
}

func New(cfg Config, logger *slog.Logger) *Extractor {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = 10 << 20
	}
	return &Extractor{
		client:   &http.Client{Timeout: cfg.Timeout},
		maxBytes: cfg.MaxBytes,
		logger:   logger.With("component", "extractor"),
	}
}

// Extract fetches pageURL and runs readability over the response body.
// The second return value reports whether the page was parseable; it is
// false for any fetch, size or parse problem.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (*Result, bool) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, false
	}

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Debug("fetch failed", "url", pageURL, "error", err)
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		e.logger.Debug("fetch returned non-200", "url", pageURL, "status", resp.StatusCode)
		return nil, false
	}

	body := io.LimitReader(resp.Body, e.maxBytes)
	article, err := readability.FromReader(body, parsed)
	if err != nil {
		e.logger.Debug("readability parse failed", "url", pageURL, "error", err)
		return nil, false
	}

	return &Result{
		Title:     article.Title,
		Author:    article.Byline,
		Content:   article.Content,
		Excerpt:   article.Excerpt,
		ImageURL:  article.Image,
		WordCount: CountWords(StripTags(article.TextContent)),
	}, true
}

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// StripTags removes markup tags and collapses runs of whitespace.
func StripTags(html string) string {
	text := tagPattern.ReplaceAllString(html, " ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// CountWords counts whitespace-delimited tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// ReadingTime estimates minutes at 200 words per minute. Any parsed
// content reads for at least a minute; zero words means zero minutes.
func ReadingTime(wordCount int) int {
	if wordCount <= 0 {
		return 0
	}
	minutes := (wordCount + 199) / 200
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
