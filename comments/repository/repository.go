package repository

import (
	"context"

	"github.com/YuumiDiary/MaaBackendCenter/comments/models"
	uuid "github.com/gofrs/uuid"
)

// ThreadSort describes the ordering for a thread page query. Field holds the
// caller-facing order key before column mapping.
type ThreadSort struct {
	Field      string
	Descending bool
}

// CommentRepository defines the data access contract for comments
type CommentRepository interface {
	// Insert persists a new comment
	Insert(ctx context.Context, comment *models.Comment) error

	// FindByID retrieves a comment by its ID, including soft-deleted rows
	FindByID(ctx context.Context, commentID uuid.UUID) (*models.Comment, error)

	// FindByIDForUpdate retrieves a comment with a row lock for mutation.
	// Must be called inside WithTransaction.
	FindByIDForUpdate(ctx context.Context, commentID uuid.UUID) (*models.Comment, error)

	// Save writes back a comment's mutable fields (raters, like count,
	// deletion state)
	Save(ctx context.Context, comment *models.Comment) error

	// FindThreadPage retrieves a page of root comments for a copilot
	FindThreadPage(ctx context.Context, copilotID uuid.UUID, sort ThreadSort, limit, offset int) ([]*models.Comment, error)

	// FindReplies retrieves all visible replies under a root comment,
	// oldest first
	FindReplies(ctx context.Context, mainCommentID uuid.UUID) ([]*models.Comment, error)

	// CountByCopilotID counts visible root comments for a copilot
	CountByCopilotID(ctx context.Context, copilotID uuid.UUID) (int64, error)

	// CountReplies counts visible replies under a root comment
	CountReplies(ctx context.Context, mainCommentID uuid.UUID) (int64, error)

	// SoftDelete marks a comment deleted without touching its replies
	SoftDelete(ctx context.Context, commentID uuid.UUID, deletedDate int64) error

	// WithTransaction executes fn within a database transaction
	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}
