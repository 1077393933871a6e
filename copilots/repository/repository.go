package repository

import (
	"context"

	uuid "github.com/gofrs/uuid"
)

// CopilotRepository exposes the copilot lookups the comment flow needs.
type CopilotRepository interface {
	// Exists reports whether a visible copilot record exists
	Exists(ctx context.Context, copilotID uuid.UUID) (bool, error)
}
