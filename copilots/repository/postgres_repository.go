package repository

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/YuumiDiary/MaaBackendCenter/internal/database/postgres"
)

// postgresCopilotRepository implements CopilotRepository using raw SQL queries
type postgresCopilotRepository struct {
	client *postgres.Client
}

// NewPostgresCopilotRepository creates a new PostgreSQL repository for copilots
func NewPostgresCopilotRepository(client *postgres.Client) CopilotRepository {
	return &postgresCopilotRepository{client: client}
}

// Exists reports whether a visible copilot record exists
func (r *postgresCopilotRepository) Exists(ctx context.Context, copilotID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM copilots WHERE id = $1 AND is_deleted = FALSE)`

	var exists bool
	err := sqlx.GetContext(ctx, r.client.DB(), &exists, query, copilotID)
	if err != nil {
		return false, fmt.Errorf("failed to check copilot existence: %w", err)
	}

	return exists, nil
}
