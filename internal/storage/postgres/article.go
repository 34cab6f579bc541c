package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"readlater/internal/domain"
)

const articleColumns = `
	id, owner_id, url, title, author, content, excerpt, image_url, domain,
	word_count, reading_time_minutes, is_content_parsed,
	is_read, is_archived, is_favorite, saved_at, read_at, archived_at`

type ArticleStore struct {
	db *sqlx.DB
}

func NewArticleStore(db *sqlx.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

func (s *ArticleStore) Insert(ctx context.Context, article *domain.Article) error {
	query := `
		INSERT INTO articles (` + articleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		article.ID,
		article.OwnerID,
		article.URL,
		article.Title,
		article.Author,
		article.Content,
		article.Excerpt,
		article.ImageURL,
		article.Domain,
		article.WordCount,
		article.ReadingTime,
		article.IsParsed,
		article.IsRead,
		article.IsArchived,
		article.IsFavorite,
		article.SavedAt,
		article.ReadAt,
		article.ArchivedAt,
	)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

func (s *ArticleStore) GetByID(ctx context.Context, id, ownerID string) (*domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1 AND owner_id = $2`
	return s.getOne(ctx, query, id, ownerID)
}

func (s *ArticleStore) GetByURL(ctx context.Context, url, ownerID string) (*domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE url = $1 AND owner_id = $2`
	return s.getOne(ctx, query, url, ownerID)
}

func (s *ArticleStore) getOne(ctx context.Context, query string, args ...any) (*domain.Article, error) {
	var article domain.Article
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &article, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// Update replaces every mutable field. Identity, ownership, url and
// saved_at never change after creation.
func (s *ArticleStore) Update(ctx context.Context, article *domain.Article) error {
	query := `
		UPDATE articles SET
			title = $3,
			author = $4,
			content = $5,
			excerpt = $6,
			image_url = $7,
			domain = $8,
			word_count = $9,
			reading_time_minutes = $10,
			is_content_parsed = $11,
			is_read = $12,
			is_archived = $13,
			is_favorite = $14,
			read_at = $15,
			archived_at = $16
		WHERE id = $1 AND owner_id = $2`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		article.ID,
		article.OwnerID,
		article.Title,
		article.Author,
		article.Content,
		article.Excerpt,
		article.ImageURL,
		article.Domain,
		article.WordCount,
		article.ReadingTime,
		article.IsParsed,
		article.IsRead,
		article.IsArchived,
		article.IsFavorite,
		article.ReadAt,
		article.ArchivedAt,
	)
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *ArticleStore) Delete(ctx context.Context, id, ownerID string) error {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		"DELETE FROM articles WHERE id = $1 AND owner_id = $2", id, ownerID)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List runs the paged multi-filter query: status, search and tag filters
// AND-compose; tag names match with OR semantics inside their set.
func (s *ArticleStore) List(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, int, error) {
	var (
		conds = []string{"a.owner_id = $1"}
		args  = []any{filter.OwnerID}
	)

	switch filter.Status {
	case domain.StatusArchived:
		conds = append(conds, "a.is_archived")
	case domain.StatusFavorites:
		conds = append(conds, "a.is_favorite", "NOT a.is_archived")
	case domain.StatusUnread:
		conds = append(conds, "NOT a.is_read", "NOT a.is_archived")
	default:
		conds = append(conds, "NOT a.is_archived")
	}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(a.title ILIKE $%d OR a.excerpt ILIKE $%d)", n, n))
	}

	if len(filter.Tags) > 0 {
		args = append(args, pq.Array(filter.Tags))
		conds = append(conds, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM article_tags at
			JOIN tags t ON t.id = at.tag_id
			WHERE at.article_id = a.id AND t.name = ANY($%d)
		)`, len(args)))
	}

	where := "WHERE " + strings.Join(conds, " AND ")
	exec := GetExecutor(ctx, s.db)

	var total int
	countQuery := "SELECT COUNT(*) FROM articles a " + where
	if err := sqlx.GetContext(ctx, exec, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)
	listQuery := fmt.Sprintf(
		"SELECT %s FROM articles a %s ORDER BY a.saved_at DESC, a.id DESC LIMIT $%d OFFSET $%d",
		prefixColumns("a"), where, len(args)-1, len(args),
	)

	articles := []domain.Article{}
	if err := sqlx.SelectContext(ctx, exec, &articles, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}

	return articles, total, nil
}

func prefixColumns(alias string) string {
	cols := strings.Split(articleColumns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}
