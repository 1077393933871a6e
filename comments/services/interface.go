package services

import (
	"context"

	uuid "github.com/gofrs/uuid"

	"github.com/YuumiDiary/MaaBackendCenter/comments/models"
	"github.com/YuumiDiary/MaaBackendCenter/internal/types"
)

// CommentService defines the business operations for comments
type CommentService interface {
	// CreateComment creates a root comment or a reply
	CreateComment(ctx context.Context, req *models.CreateCommentRequest, owner types.UserContext) (*models.Comment, error)

	// DeleteComment soft deletes a comment owned by the actor
	DeleteComment(ctx context.Context, commentID uuid.UUID, actor types.UserContext) error

	// RateComment records the actor's rating and refreshes the like count
	RateComment(ctx context.Context, req *models.RateCommentRequest, actor types.UserContext) (*models.Comment, error)

	// QueryThreads returns a page of comment threads for a copilot
	QueryThreads(ctx context.Context, filter *models.ThreadQueryFilter) (*models.ThreadListResponse, error)

	// GetComment retrieves a single visible comment
	GetComment(ctx context.Context, commentID uuid.UUID) (*models.Comment, error)

	// GetRootCommentCount counts visible root comments for a copilot
	GetRootCommentCount(ctx context.Context, copilotID uuid.UUID) (int64, error)

	// GetReplyCount counts visible replies under a comment
	GetReplyCount(ctx context.Context, commentID uuid.UUID) (int64, error)
}
