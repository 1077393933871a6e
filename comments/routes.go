package comments

import (
	"github.com/gofiber/fiber/v2"

	"github.com/YuumiDiary/MaaBackendCenter/comments/handlers"
	"github.com/YuumiDiary/MaaBackendCenter/internal/middleware/authjwt"
	platformconfig "github.com/YuumiDiary/MaaBackendCenter/internal/platform/config"
)

// CommentsHandlers holds all the handlers this router needs.
type CommentsHandlers struct {
	CommentHandler *handlers.CommentHandler
}

// RegisterRoutes is the single entry point for setting up comment routes.
// Listing routes are public; mutating routes require a verified token.
func RegisterRoutes(app *fiber.App, h *CommentsHandlers, cfg *platformconfig.Config) {
	authMiddleware := authjwt.New(authjwt.Config{
		PublicKey: cfg.JWT.PublicKey,
	})

	group := app.Group("/comments")

	group.Get("/", h.CommentHandler.GetThreads)
	group.Get("/:commentId", h.CommentHandler.GetComment)
	group.Post("/", authMiddleware, h.CommentHandler.CreateComment)
	group.Put("/rating", authMiddleware, h.CommentHandler.RateComment)
	group.Delete("/:commentId", authMiddleware, h.CommentHandler.DeleteComment)
}
