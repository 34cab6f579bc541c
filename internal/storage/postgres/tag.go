package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"readlater/internal/domain"
)

type TagStore struct {
	db *sqlx.DB
}

func NewTagStore(db *sqlx.DB) *TagStore {
	return &TagStore{db: db}
}

// GetOrCreate resolves an owner-scoped tag by normalized name, inserting
// it if absent. The (owner_id, name) unique index guards the read-then-
// insert race: a conflicting concurrent insert falls back to a fetch.
func (s *TagStore) GetOrCreate(ctx context.Context, tag *domain.Tag) (*domain.Tag, error) {
	exec := GetExecutor(ctx, s.db)

	query := `
		INSERT INTO tags (id, owner_id, name, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_id, name) DO NOTHING
		RETURNING id, owner_id, name, created_at`

	var created domain.Tag
	err := sqlx.GetContext(ctx, exec, &created, query,
		tag.ID, tag.OwnerID, tag.Name, tag.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		err = sqlx.GetContext(ctx, exec, &created,
			"SELECT id, owner_id, name, created_at FROM tags WHERE owner_id = $1 AND name = $2",
			tag.OwnerID, tag.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("get or create tag %q: %w", tag.Name, err)
	}
	return &created, nil
}

func (s *TagStore) GetByID(ctx context.Context, id, ownerID string) (*domain.Tag, error) {
	var tag domain.Tag
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &tag,
		"SELECT id, owner_id, name, created_at FROM tags WHERE id = $1 AND owner_id = $2",
		id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *TagStore) ListByOwner(ctx context.Context, ownerID string) ([]domain.Tag, error) {
	tags := []domain.Tag{}
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &tags,
		"SELECT id, owner_id, name, created_at FROM tags WHERE owner_id = $1 ORDER BY name",
		ownerID)
	return tags, err
}

func (s *TagStore) ListByArticle(ctx context.Context, articleID string) ([]domain.Tag, error) {
	query := `
		SELECT t.id, t.owner_id, t.name, t.created_at
		FROM tags t
		INNER JOIN article_tags at ON at.tag_id = t.id
		WHERE at.article_id = $1
		ORDER BY t.name`

	tags := []domain.Tag{}
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &tags, query, articleID)
	return tags, err
}

// UnlinkArticle removes every association for the article. Tags
// themselves survive with zero associations.
func (s *TagStore) UnlinkArticle(ctx context.Context, articleID string) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		"DELETE FROM article_tags WHERE article_id = $1", articleID)
	return err
}

func (s *TagStore) LinkArticle(ctx context.Context, articleID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}

	exec := GetExecutor(ctx, s.db)
	for _, tagID := range tagIDs {
		_, err := exec.ExecContext(ctx,
			"INSERT INTO article_tags (article_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			articleID, tagID)
		if err != nil {
			return fmt.Errorf("link tag %s: %w", tagID, err)
		}
	}
	return nil
}

// Delete removes the tag after its associations; articles that carried
// it are unaffected.
func (s *TagStore) Delete(ctx context.Context, id, ownerID string) error {
	exec := GetExecutor(ctx, s.db)

	_, err := exec.ExecContext(ctx,
		`DELETE FROM article_tags WHERE tag_id IN
			(SELECT id FROM tags WHERE id = $1 AND owner_id = $2)`,
		id, ownerID)
	if err != nil {
		return fmt.Errorf("delete tag associations: %w", err)
	}

	res, err := exec.ExecContext(ctx,
		"DELETE FROM tags WHERE id = $1 AND owner_id = $2", id, ownerID)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
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
