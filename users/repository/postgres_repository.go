package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	commenterrors "github.com/YuumiDiary/MaaBackendCenter/comments/errors"
	"github.com/YuumiDiary/MaaBackendCenter/internal/database/postgres"
)

// postgresUserRepository implements UserRepository using raw SQL queries
type postgresUserRepository struct {
	client *postgres.Client
}

// NewPostgresUserRepository creates a new PostgreSQL repository for users
func NewPostgresUserRepository(client *postgres.Client) UserRepository {
	return &postgresUserRepository{client: client}
}

// FindDisplayName returns the display name for a user
func (r *postgresUserRepository) FindDisplayName(ctx context.Context, userID uuid.UUID) (string, error) {
	query := `SELECT display_name FROM users WHERE id = $1`

	var displayName string
	err := sqlx.GetContext(ctx, r.client.DB(), &displayName, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", commenterrors.ErrUserNotFound
		}
		return "", fmt.Errorf("failed to find display name: %w", err)
	}

	return displayName, nil
}

// FindDisplayNames resolves display names for a batch of users in one query
func (r *postgresUserRepository) FindDisplayNames(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	if len(userIDs) == 0 {
		return make(map[uuid.UUID]string), nil
	}

	idStrings := make([]string, len(userIDs))
	for i, id := range userIDs {
		idStrings[i] = id.String()
	}

	query := `SELECT id, display_name FROM users WHERE id = ANY($1::uuid[])`

	var rows []struct {
		ID          uuid.UUID `db:"id"`
		DisplayName string    `db:"display_name"`
	}
	err := sqlx.SelectContext(ctx, r.client.DB(), &rows, query, pq.Array(idStrings))
	if err != nil {
		return nil, fmt.Errorf("failed to find display names: %w", err)
	}

	names := make(map[uuid.UUID]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.DisplayName
	}

	return names, nil
}
