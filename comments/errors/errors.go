package errors

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Service errors
var (
	ErrCommentNotFound          = errors.New("comment not found")
	ErrCopilotNotFound          = errors.New("copilot not found")
	ErrCommentOwnershipRequired = errors.New("user does not own this comment")
	ErrInvalidCommentText       = errors.New("comment text is invalid")
	ErrInvalidRating            = errors.New("rating value is invalid")
	ErrInvalidCommentId         = errors.New("comment id is invalid")
	ErrInvalidCopilotId         = errors.New("copilot id is invalid")
	ErrInvalidPagination        = errors.New("pagination parameters are invalid")
	ErrUserNotFound             = errors.New("user not found")
)

// Error codes for API responses
const (
	CodeCommentNotFound   = "comment/notFound"
	CodeCopilotNotFound   = "comment/copilotNotFound"
	CodeAccessDenied      = "comment/accessDenied"
	CodeInvalidInput      = "comment/invalidInput"
	CodeInvalidRating     = "comment/invalidRating"
	CodeUnauthorized      = "comment/unauthorized"
	CodeInternalError     = "comment/internalError"
	CodeQueryParseFailed  = "comment/queryParseFailed"
	CodeBodyParseFailed   = "comment/bodyParseFailed"
	CodeInvalidIdentifier = "comment/invalidIdentifier"
)

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func respond(c *fiber.Ctx, status int, code, message, details string) error {
	return c.Status(status).JSON(ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// RespondNotFound sends a 404 error response
func RespondNotFound(c *fiber.Ctx, code, message string) error {
	return respond(c, fiber.StatusNotFound, code, message, "")
}

// RespondBadRequest sends a 400 error response
func RespondBadRequest(c *fiber.Ctx, code, message, details string) error {
	return respond(c, fiber.StatusBadRequest, code, message, details)
}

// RespondForbidden sends a 403 error response
func RespondForbidden(c *fiber.Ctx, code, message string) error {
	return respond(c, fiber.StatusForbidden, code, message, "")
}

// RespondUnauthorized sends a 401 error response
func RespondUnauthorized(c *fiber.Ctx, code, message string) error {
	return respond(c, fiber.StatusUnauthorized, code, message, "")
}

// RespondInternalError sends a 500 error response
func RespondInternalError(c *fiber.Ctx, code, message string) error {
	return respond(c, fiber.StatusInternalServerError, code, message, "")
}

// HandleServiceError maps a service-layer error to an HTTP response.
func HandleServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrCommentNotFound):
		return RespondNotFound(c, CodeCommentNotFound, "Comment not found")
	case errors.Is(err, ErrCopilotNotFound):
		return RespondNotFound(c, CodeCopilotNotFound, "Copilot not found")
	case errors.Is(err, ErrCommentOwnershipRequired):
		return RespondForbidden(c, CodeAccessDenied, "You can only modify your own comments")
	case errors.Is(err, ErrInvalidCommentText):
		return RespondBadRequest(c, CodeInvalidInput, "Comment text is invalid", err.Error())
	case errors.Is(err, ErrInvalidRating):
		return RespondBadRequest(c, CodeInvalidRating, "Rating value is invalid", err.Error())
	case errors.Is(err, ErrInvalidCommentId), errors.Is(err, ErrInvalidCopilotId):
		return RespondBadRequest(c, CodeInvalidIdentifier, "Identifier is invalid", err.Error())
	case errors.Is(err, ErrInvalidPagination):
		return RespondBadRequest(c, CodeInvalidInput, "Pagination parameters are invalid", err.Error())
	default:
		return RespondInternalError(c, CodeInternalError, "Internal server error")
	}
}
