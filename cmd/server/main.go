package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"readlater/internal/api"
	"readlater/internal/auth"
	"readlater/internal/cache"
	"readlater/internal/config"
	"readlater/internal/extractor"
	"readlater/internal/janitor"
	"readlater/internal/publisher"
	"readlater/internal/service"
	"readlater/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var listCache service.ListCache
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Warn("redis ping failed, list cache disabled", "error", err)
		} else {
			listCache = cache.NewArticleListCache(rdb, cfg.Redis.TTL, logger)
			logger.Info("connected to redis", "addr", cfg.Redis.Addr)
		}
	}

	var events service.EventPublisher
	if cfg.RabbitMQ.Enabled {
		rmq, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rmq.Close()
		events = rmq
	}

	articleStore := postgres.NewArticleStore(db)
	tagStore := postgres.NewTagStore(db)
	userStore := postgres.NewUserStore(db)
	tokenStore := postgres.NewRefreshTokenStore(db)
	txManager := postgres.NewTransactionManager(db)

	contentExtractor := extractor.New(extractor.Config{
		Timeout:  cfg.Extractor.Timeout,
		MaxBytes: cfg.Extractor.MaxBytes,
	}, logger)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)

	articleService := service.NewArticleService(
		articleStore, tagStore, contentExtractor, txManager, events, listCache, logger)
	tagService := service.NewTagService(tagStore, articleStore, txManager, listCache, logger)
	authService := service.NewAuthService(
		userStore, tokenStore, tokenManager, cfg.Auth.RefreshTokenTTL, logger)

	if cfg.Janitor.Enabled {
		j := janitor.New(tokenStore, cfg.Janitor.Interval, logger)
		go func() {
			if err := j.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("janitor error", "error", err)
			}
		}()
	}

	handler := api.NewHandler(articleService, tagService, authService, logger)
	router := api.NewRouter(handler, tokenManager)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
