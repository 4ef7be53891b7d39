package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"ratehub/database"
	"ratehub/internal/api/handler"
	"ratehub/internal/api/repository"
	"ratehub/internal/api/service"
	"ratehub/internal/config"
	"ratehub/internal/notifier"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	var sender notifier.Notifier
	switch cfg.NotifierBackend {
	case "redis":
		redisNotifier, err := notifier.NewRedisNotifier(cfg.RedisURL, cfg.RedisPassword, cfg.NotifierQueue)
		if err != nil {
			logger.Error("redis notifier setup failed", "error", err)
			os.Exit(1)
		}
		defer redisNotifier.Close()
		sender = redisNotifier
	default:
		sender = notifier.NewLogNotifier(logger)
	}

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	titleRepo := repository.NewTitleRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	authService := service.NewAuthService(userRepo, sender, cfg)
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	genreService := service.NewGenreService(genreRepo)
	titleService := service.NewTitleService(titleRepo, reviewRepo, categoryRepo, genreRepo)
	reviewService := service.NewReviewService(reviewRepo, titleRepo)
	commentService := service.NewCommentService(commentRepo, reviewRepo, titleRepo)

	r := handler.NewRouter(
		cfg,
		authService,
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(userService),
		handler.NewCategoryHandler(categoryService),
		handler.NewGenreHandler(genreService),
		handler.NewTitleHandler(titleService),
		handler.NewReviewHandler(reviewService),
		handler.NewCommentHandler(commentService),
	)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("API server starting", "addr", addr)
	if err := r.Run(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
