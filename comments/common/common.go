package common

import (
	"fmt"

	uuid "github.com/gofrs/uuid"
)

// BuildThreadCacheKey builds the cache key for a page of comment threads.
func BuildThreadCacheKey(copilotID uuid.UUID, page, limit int, orderBy string, desc bool) string {
	return fmt.Sprintf("threads:%s:p%d:l%d:o%s:d%t", copilotID.String(), page, limit, orderBy, desc)
}

// BuildThreadCachePattern builds the invalidation pattern covering every
// cached page for a copilot.
func BuildThreadCachePattern(copilotID uuid.UUID) string {
	return fmt.Sprintf("threads:%s:*", copilotID.String())
}

// BuildCommentCacheKey builds the cache key for a single comment.
func BuildCommentCacheKey(commentID uuid.UUID) string {
	return fmt.Sprintf("comment:%s", commentID.String())
}
