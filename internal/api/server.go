package api

import (
	"github.com/gin-gonic/gin"

	"readlater/internal/auth"
)

// NewRouter wires all routes. Everything under /api except the auth
// endpoints requires a bearer access token.
func NewRouter(h *Handler, tokenManager *auth.TokenManager) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.POST("/logout", h.Logout)
	}

	protected := r.Group("/api", RequireAuth(tokenManager))
	{
		protected.GET("/articles", h.ListArticles)
		protected.POST("/articles", h.SaveArticle)
		protected.GET("/articles/:id", h.GetArticle)
		protected.DELETE("/articles/:id", h.DeleteArticle)
		protected.PATCH("/articles/:id/read", h.ToggleRead)
		protected.PATCH("/articles/:id/archive", h.ToggleArchive)
		protected.PATCH("/articles/:id/favorite", h.ToggleFavorite)
		protected.GET("/articles/:id/tags", h.GetArticleTags)
		protected.PUT("/articles/:id/tags", h.SetArticleTags)
		protected.GET("/tags", h.ListTags)
		protected.DELETE("/tags/:id", h.DeleteTag)
	}

	return r
}
