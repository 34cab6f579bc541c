package domain

import (
	"strings"
	"time"
)

const (
	MaxURLLength      = 2048
	MaxTitleLength    = 500
	MaxDomainLength   = 255
	MaxTagNameLength  = 50
	MaxTagsPerArticle = 10
)

type Article struct {
	ID          string     `db:"id" json:"id"`
	OwnerID     string     `db:"owner_id" json:"-"`
	URL         string     `db:"url" json:"url"`
	Title       string     `db:"title" json:"title"`
	Author      *string    `db:"author" json:"author"`
	Content     *string    `db:"content" json:"content"`
	Excerpt     *string    `db:"excerpt" json:"excerpt"`
	ImageURL    *string    `db:"image_url" json:"imageUrl"`
	Domain      string     `db:"domain" json:"domain"`
	WordCount   int        `db:"word_count" json:"wordCount"`
	ReadingTime int        `db:"reading_time_minutes" json:"estimatedReadingTimeMinutes"`
	IsParsed    bool       `db:"is_content_parsed" json:"isContentParsed"`
	IsRead      bool       `db:"is_read" json:"isRead"`
	IsArchived  bool       `db:"is_archived" json:"isArchived"`
	IsFavorite  bool       `db:"is_favorite" json:"isFavorite"`
	SavedAt     time.Time  `db:"saved_at" json:"savedAt"`
	ReadAt      *time.Time `db:"read_at" json:"readAt"`
	ArchivedAt  *time.Time `db:"archived_at" json:"archivedAt"`
}

type Tag struct {
	ID        string    `db:"id" json:"id"`
	OwnerID   string    `db:"owner_id" json:"-"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Status selects the mutually exclusive base filter for list queries.
type Status string

const (
	StatusDefault   Status = ""
	StatusArchived  Status = "archived"
	StatusFavorites Status = "favorites"
	StatusUnread    Status = "unread"
)

// ArticleFilter is the normalized input of a paged list query.
type ArticleFilter struct {
	OwnerID  string
	Page     int
	PageSize int
	Status   Status
	Search   string
	Tags     []string
}

// Normalize clamps pagination, trims the search term and lower-cases
// tag names. Unknown status values fall back to the default filter.
func (f ArticleFilter) Normalize() ArticleFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}
	f.Search = strings.TrimSpace(f.Search)
	switch f.Status {
	case StatusArchived, StatusFavorites, StatusUnread:
	default:
		f.Status = StatusDefault
	}
	tags := make([]string, 0, len(f.Tags))
	for _, t := range f.Tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			tags = append(tags, t)
		}
	}
	f.Tags = tags
	return f
}

type Page[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
}
