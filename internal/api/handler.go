package api

import (
	"log/slog"

	"readlater/internal/service"
)

type Handler struct {
	articles *service.ArticleService
	tags     *service.TagService
	auth     *service.AuthService
	logger   *slog.Logger
}

func NewHandler(
	articles *service.ArticleService,
	tags *service.TagService,
	authService *service.AuthService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		articles: articles,
		tags:     tags,
		auth:     authService,
		logger:   logger.With("component", "api"),
	}
}
