package main

import (
	"context"
	"fmt"
	stdlog "log"

	"github.com/gofiber/fiber/v2"

	"github.com/YuumiDiary/MaaBackendCenter/comments"
	"github.com/YuumiDiary/MaaBackendCenter/comments/handlers"
	commentsRepository "github.com/YuumiDiary/MaaBackendCenter/comments/repository"
	commentsServices "github.com/YuumiDiary/MaaBackendCenter/comments/services"
	copilotsRepository "github.com/YuumiDiary/MaaBackendCenter/copilots/repository"
	"github.com/YuumiDiary/MaaBackendCenter/internal/cache"
	"github.com/YuumiDiary/MaaBackendCenter/internal/database/postgres"
	"github.com/YuumiDiary/MaaBackendCenter/internal/pkg/log"
	platformconfig "github.com/YuumiDiary/MaaBackendCenter/internal/platform/config"
	usersRepository "github.com/YuumiDiary/MaaBackendCenter/users/repository"
)

func main() {
	cfg, err := platformconfig.LoadFromEnv()
	if err != nil {
		stdlog.Fatalf("Failed to load platform config: %v", err)
	}

	ctx := context.Background()

	dbClient, err := postgres.NewClient(ctx, &cfg.Database.Postgres)
	if err != nil {
		stdlog.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbClient.Close()

	cacheService := cache.NewGenericCacheServiceFor(&cfg.Cache, "comments")

	commentRepo := commentsRepository.NewPostgresCommentRepository(dbClient)
	copilotRepo := copilotsRepository.NewPostgresCopilotRepository(dbClient)
	userRepo := usersRepository.NewPostgresUserRepository(dbClient)

	commentService := commentsServices.NewCommentService(commentRepo, copilotRepo, userRepo, cacheService)

	app := fiber.New()

	commentsHandlers := &comments.CommentsHandlers{
		CommentHandler: handlers.NewCommentHandler(commentService),
	}
	comments.RegisterRoutes(app, commentsHandlers, cfg)

	log.Info("Starting comments service on port %d", cfg.Server.Port)
	stdlog.Fatal(app.Listen(fmt.Sprintf(":%d", cfg.Server.Port)))
}
