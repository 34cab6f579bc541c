package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"readlater/internal/domain"
)

func TestKey_DistinctFiltersGetDistinctKeys(t *testing.T) {
	base := domain.ArticleFilter{OwnerID: "owner-1", Page: 1, PageSize: 20}

	bySearch := base
	bySearch.Search = "x:tgo"

	byTag := base
	byTag.Tags = []string{"go"}
	byTag.Search = "x"

	assert.NotEqual(t, key(bySearch), key(byTag))

	colonTag := base
	colonTag.Tags = []string{"a:b"}

	commaTag := base
	commaTag.Tags = []string{"a", "b"}

	assert.NotEqual(t, key(colonTag), key(commaTag))
}

func TestKey_SameFilterIsStable(t *testing.T) {
	filter := domain.ArticleFilter{
		OwnerID: "owner-1", Page: 2, PageSize: 10,
		Status: domain.StatusFavorites, Search: "golang", Tags: []string{"go", "unix"},
	}
	assert.Equal(t, key(filter), key(filter))
}

func TestKey_ScopedToOwnerPrefix(t *testing.T) {
	filter := domain.ArticleFilter{OwnerID: "owner-1", Page: 1, PageSize: 20, Search: "a b"}
	assert.Contains(t, key(filter), "articles:owner-1:")
}
