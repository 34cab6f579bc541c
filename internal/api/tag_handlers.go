package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type setTagsRequest struct {
	Tags []string `json:"tags"`
}

func (h *Handler) GetArticleTags(c *gin.Context) {
	tags, err := h.tags.ListForArticle(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

// SetArticleTags replaces the article's tag set with the submitted one.
func (h *Handler) SetArticleTags(c *gin.Context) {
	var req setTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}

	tags, err := h.tags.SetArticleTags(c.Request.Context(), c.Param("id"), currentUserID(c), req.Tags)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.tags.ListByOwner(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *Handler) DeleteTag(c *gin.Context) {
	if err := h.tags.Delete(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
