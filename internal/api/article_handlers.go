package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"readlater/internal/domain"
)

type saveArticleRequest struct {
	URL   string `json:"url" binding:"required"`
	Title string `json:"title"`
}

// SaveArticle answers 201 for a newly saved URL and 200 when the owner
// had already saved it.
func (h *Handler) SaveArticle(c *gin.Context) {
	var req saveArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}

	article, created, err := h.articles.Save(c.Request.Context(), currentUserID(c), req.URL, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, article)
}

func (h *Handler) ListArticles(c *gin.Context) {
	filter := domain.ArticleFilter{
		OwnerID:  currentUserID(c),
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "pageSize", 20),
		Status:   domain.Status(c.Query("status")),
		Search:   c.Query("search"),
	}
	if tags := c.Query("tags"); tags != "" {
		filter.Tags = strings.Split(tags, ",")
	}

	page, err := h.articles.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) GetArticle(c *gin.Context) {
	article, err := h.articles.Get(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

func (h *Handler) DeleteArticle(c *gin.Context) {
	if err := h.articles.Delete(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ToggleRead(c *gin.Context) {
	h.toggle(c, h.articles.ToggleRead)
}

func (h *Handler) ToggleArchive(c *gin.Context) {
	h.toggle(c, h.articles.ToggleArchive)
}

func (h *Handler) ToggleFavorite(c *gin.Context) {
	h.toggle(c, h.articles.ToggleFavorite)
}

func (h *Handler) toggle(c *gin.Context, fn func(ctx context.Context, id, ownerID string) error) {
	if err := fn(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(fallback)))
	if err != nil {
		return fallback
	}
	return v
}
