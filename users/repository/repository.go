package repository

import (
	"context"

	uuid "github.com/gofrs/uuid"
)

// UserRepository exposes the user lookups the comment flow needs.
type UserRepository interface {
	// FindDisplayName returns the display name for a user. Returns
	// errors.ErrUserNotFound when no user record exists.
	FindDisplayName(ctx context.Context, userID uuid.UUID) (string, error)

	// FindDisplayNames resolves display names for a batch of users in one
	// query. Users with no record are absent from the result map.
	FindDisplayNames(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]string, error)
}
