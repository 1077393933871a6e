package interfaces

import (
	"context"

	"github.com/gofrs/uuid"
)

// CommentCounter is the public interface for counting comments.
// Any service that needs comment counts depends on this rather than on the
// comment service's concrete type, so in-process and networked deployments
// can share the same call sites.
type CommentCounter interface {
	GetRootCommentCount(ctx context.Context, copilotID uuid.UUID) (int64, error)
	GetReplyCount(ctx context.Context, commentID uuid.UUID) (int64, error)
}
