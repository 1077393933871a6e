package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	uuid "github.com/gofrs/uuid"
	"github.com/gorilla/schema"

	"github.com/YuumiDiary/MaaBackendCenter/comments/errors"
	"github.com/YuumiDiary/MaaBackendCenter/comments/models"
	"github.com/YuumiDiary/MaaBackendCenter/comments/services"
	"github.com/YuumiDiary/MaaBackendCenter/internal/types"
)

// CommentHandler handles all comment-related HTTP requests
type CommentHandler struct {
	commentService services.CommentService
	queryDecoder   *schema.Decoder
}

// NewCommentHandler creates a new CommentHandler with injected dependencies
func NewCommentHandler(commentService services.CommentService) *CommentHandler {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return &CommentHandler{
		commentService: commentService,
		queryDecoder:   decoder,
	}
}

// queryValues collects the request's query parameters into the url.Values
// shape the schema decoder expects.
func queryValues(c *fiber.Ctx) map[string][]string {
	values := make(map[string][]string)
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		k := string(key)
		values[k] = append(values[k], string(value))
	})
	return values
}

// CreateComment handles comment creation
func (h *CommentHandler) CreateComment(c *fiber.Ctx) error {
	var req models.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.RespondBadRequest(c, errors.CodeBodyParseFailed, "Invalid request body", err.Error())
	}

	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.RespondUnauthorized(c, errors.CodeUnauthorized, "Invalid user context")
	}

	result, err := h.commentService.CreateComment(c.Context(), &req, user)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(result)
}

// GetThreads handles retrieving a page of comment threads for a copilot
func (h *CommentHandler) GetThreads(c *fiber.Ctx) error {
	var filter models.ThreadQueryFilter
	if err := h.queryDecoder.Decode(&filter, queryValues(c)); err != nil {
		return errors.RespondBadRequest(c, errors.CodeQueryParseFailed, "Invalid query parameters", err.Error())
	}

	response, err := h.commentService.QueryThreads(c.Context(), &filter)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(response)
}

// GetComment handles retrieving a specific comment
func (h *CommentHandler) GetComment(c *fiber.Ctx) error {
	commentID, err := uuid.FromString(c.Params("commentId"))
	if err != nil {
		return errors.RespondBadRequest(c, errors.CodeInvalidIdentifier, "Invalid comment ID", err.Error())
	}

	comment, err := h.commentService.GetComment(c.Context(), commentID)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(comment)
}

// RateComment handles rating a comment
func (h *CommentHandler) RateComment(c *fiber.Ctx) error {
	var req models.RateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.RespondBadRequest(c, errors.CodeBodyParseFailed, "Invalid request body", err.Error())
	}

	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.RespondUnauthorized(c, errors.CodeUnauthorized, "Invalid user context")
	}

	result, err := h.commentService.RateComment(c.Context(), &req, user)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(result)
}

// DeleteComment handles comment deletion
func (h *CommentHandler) DeleteComment(c *fiber.Ctx) error {
	commentID, err := uuid.FromString(c.Params("commentId"))
	if err != nil {
		return errors.RespondBadRequest(c, errors.CodeInvalidIdentifier, "Invalid comment ID", err.Error())
	}

	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.RespondUnauthorized(c, errors.CodeUnauthorized, "Invalid user context")
	}

	if err := h.commentService.DeleteComment(c.Context(), commentID, user); err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.SendStatus(http.StatusNoContent)
}
