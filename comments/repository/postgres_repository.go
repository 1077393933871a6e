package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	commenterrors "github.com/YuumiDiary/MaaBackendCenter/comments/errors"
	"github.com/YuumiDiary/MaaBackendCenter/comments/models"
	"github.com/YuumiDiary/MaaBackendCenter/internal/database/postgres"
)

// postgresCommentRepository implements CommentRepository using raw SQL queries
type postgresCommentRepository struct {
	client *postgres.Client
}

// NewPostgresCommentRepository creates a new PostgreSQL repository for comments
func NewPostgresCommentRepository(client *postgres.Client) CommentRepository {
	return &postgresCommentRepository{client: client}
}

// getExecutor returns either the transaction from context or the DB connection
func (r *postgresCommentRepository) getExecutor(ctx context.Context) sqlx.ExtContext {
	if txVal := ctx.Value("tx"); txVal != nil {
		if tx, ok := txVal.(*sqlx.Tx); ok {
			return tx
		}
	}
	return r.client.DB()
}

const commentColumns = `
	id, copilot_id, owner_user_id, main_comment_id, reply_to_comment_id,
	text, raters, like_count, is_deleted, deleted_date,
	created_date, last_updated`

type commentRow struct {
	ID               uuid.UUID       `db:"id"`
	CopilotID        uuid.UUID       `db:"copilot_id"`
	OwnerUserID      uuid.UUID       `db:"owner_user_id"`
	MainCommentID    *uuid.UUID      `db:"main_comment_id"`
	ReplyToCommentID *uuid.UUID      `db:"reply_to_comment_id"`
	Text             string          `db:"text"`
	Raters           models.RaterMap `db:"raters"`
	LikeCount        int64           `db:"like_count"`
	IsDeleted        bool            `db:"is_deleted"`
	DeletedDate      int64           `db:"deleted_date"`
	CreatedDate      int64           `db:"created_date"`
	LastUpdated      int64           `db:"last_updated"`
}

func (row *commentRow) toModel() *models.Comment {
	return &models.Comment{
		ObjectId:         row.ID,
		CopilotId:        row.CopilotID,
		OwnerUserId:      row.OwnerUserID,
		MainCommentId:    row.MainCommentID,
		ReplyToCommentId: row.ReplyToCommentID,
		Text:             row.Text,
		Raters:           row.Raters,
		LikeCount:        row.LikeCount,
		Deleted:          row.IsDeleted,
		DeletedDate:      row.DeletedDate,
		CreatedDate:      row.CreatedDate,
		LastUpdated:      row.LastUpdated,
	}
}

// Insert persists a new comment
func (r *postgresCommentRepository) Insert(ctx context.Context, comment *models.Comment) error {
	nowUnix := time.Now().Unix()
	if comment.CreatedDate == 0 {
		comment.CreatedDate = nowUnix
	}
	if comment.LastUpdated == 0 {
		comment.LastUpdated = nowUnix
	}
	if comment.Raters == nil {
		comment.Raters = models.RaterMap{}
	}

	query := `
		INSERT INTO comments (
			id, copilot_id, owner_user_id, main_comment_id, reply_to_comment_id,
			text, raters, like_count, is_deleted, deleted_date,
			created_date, last_updated
		) VALUES (
			:id, :copilot_id, :owner_user_id, :main_comment_id, :reply_to_comment_id,
			:text, :raters, :like_count, :is_deleted, :deleted_date,
			:created_date, :last_updated
		)`

	insertData := commentRow{
		ID:               comment.ObjectId,
		CopilotID:        comment.CopilotId,
		OwnerUserID:      comment.OwnerUserId,
		MainCommentID:    comment.MainCommentId,
		ReplyToCommentID: comment.ReplyToCommentId,
		Text:             comment.Text,
		Raters:           comment.Raters,
		LikeCount:        comment.LikeCount,
		IsDeleted:        comment.Deleted,
		DeletedDate:      comment.DeletedDate,
		CreatedDate:      comment.CreatedDate,
		LastUpdated:      comment.LastUpdated,
	}

	_, err := sqlx.NamedExecContext(ctx, r.getExecutor(ctx), query, insertData)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23503" {
			if strings.Contains(pgErr.Detail, "copilot_id") {
				return commenterrors.ErrCopilotNotFound
			}
			if strings.Contains(pgErr.Detail, "owner_user_id") {
				return fmt.Errorf("user does not exist (stale token): %w", sql.ErrNoRows)
			}
		}
		return fmt.Errorf("failed to insert comment: %w", err)
	}

	return nil
}

// FindByID retrieves a comment by its ID, including soft-deleted rows
func (r *postgresCommentRepository) FindByID(ctx context.Context, commentID uuid.UUID) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`

	var row commentRow
	err := sqlx.GetContext(ctx, r.getExecutor(ctx), &row, query, commentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, commenterrors.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to find comment by ID: %w", err)
	}

	return row.toModel(), nil
}

// FindByIDForUpdate retrieves a comment with a row lock for mutation
func (r *postgresCommentRepository) FindByIDForUpdate(ctx context.Context, commentID uuid.UUID) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1 FOR UPDATE`

	var row commentRow
	err := sqlx.GetContext(ctx, r.getExecutor(ctx), &row, query, commentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, commenterrors.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to lock comment: %w", err)
	}

	return row.toModel(), nil
}

// Save writes back a comment's mutable fields
func (r *postgresCommentRepository) Save(ctx context.Context, comment *models.Comment) error {
	comment.LastUpdated = time.Now().Unix()

	query := `
		UPDATE comments SET
			text = :text,
			raters = :raters,
			like_count = :like_count,
			is_deleted = :is_deleted,
			deleted_date = :deleted_date,
			last_updated = :last_updated
		WHERE id = :id`

	updateData := struct {
		ID          uuid.UUID       `db:"id"`
		Text        string          `db:"text"`
		Raters      models.RaterMap `db:"raters"`
		LikeCount   int64           `db:"like_count"`
		IsDeleted   bool            `db:"is_deleted"`
		DeletedDate int64           `db:"deleted_date"`
		LastUpdated int64           `db:"last_updated"`
	}{
		ID:          comment.ObjectId,
		Text:        comment.Text,
		Raters:      comment.Raters,
		LikeCount:   comment.LikeCount,
		IsDeleted:   comment.Deleted,
		DeletedDate: comment.DeletedDate,
		LastUpdated: comment.LastUpdated,
	}

	result, err := sqlx.NamedExecContext(ctx, r.getExecutor(ctx), query, updateData)
	if err != nil {
		return fmt.Errorf("failed to save comment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return commenterrors.ErrCommentNotFound
	}

	return nil
}

// sortColumn maps a caller-facing order key to a comments column. "hot" and
// the empty key order by like count; "id" orders by creation time. Any other
// key is taken as a column name and quoted to keep it inert in SQL.
func sortColumn(field string) string {
	switch field {
	case "", "hot":
		return "like_count"
	case "id":
		return "created_date"
	default:
		return pq.QuoteIdentifier(field)
	}
}

// FindThreadPage retrieves a page of root comments for a copilot
func (r *postgresCommentRepository) FindThreadPage(ctx context.Context, copilotID uuid.UUID, sort ThreadSort, limit, offset int) ([]*models.Comment, error) {
	direction := "ASC"
	if sort.Descending {
		direction = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT `+commentColumns+`
		FROM comments
		WHERE copilot_id = $1 AND main_comment_id IS NULL AND is_deleted = FALSE
		ORDER BY %s %s, id ASC
		LIMIT $2 OFFSET $3`, sortColumn(sort.Field), direction)

	var rows []commentRow
	err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &rows, query, copilotID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to find thread page: %w", err)
	}

	comments := make([]*models.Comment, len(rows))
	for i := range rows {
		comments[i] = rows[i].toModel()
	}

	return comments, nil
}

// FindReplies retrieves all visible replies under a root comment, oldest first
func (r *postgresCommentRepository) FindReplies(ctx context.Context, mainCommentID uuid.UUID) ([]*models.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE main_comment_id = $1 AND is_deleted = FALSE
		ORDER BY created_date ASC, id ASC`

	var rows []commentRow
	err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &rows, query, mainCommentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find replies: %w", err)
	}

	comments := make([]*models.Comment, len(rows))
	for i := range rows {
		comments[i] = rows[i].toModel()
	}

	return comments, nil
}

// CountByCopilotID counts visible root comments for a copilot
func (r *postgresCommentRepository) CountByCopilotID(ctx context.Context, copilotID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM comments WHERE copilot_id = $1 AND main_comment_id IS NULL AND is_deleted = FALSE`

	var count int64
	err := sqlx.GetContext(ctx, r.getExecutor(ctx), &count, query, copilotID)
	if err != nil {
		return 0, fmt.Errorf("failed to count comments by copilot ID: %w", err)
	}

	return count, nil
}

// CountReplies counts visible replies under a root comment
func (r *postgresCommentRepository) CountReplies(ctx context.Context, mainCommentID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM comments WHERE main_comment_id = $1 AND is_deleted = FALSE`

	var count int64
	err := sqlx.GetContext(ctx, r.getExecutor(ctx), &count, query, mainCommentID)
	if err != nil {
		return 0, fmt.Errorf("failed to count replies: %w", err)
	}

	return count, nil
}

// SoftDelete marks a comment deleted without touching its replies
func (r *postgresCommentRepository) SoftDelete(ctx context.Context, commentID uuid.UUID, deletedDate int64) error {
	query := `UPDATE comments SET is_deleted = TRUE, deleted_date = $1, last_updated = $1 WHERE id = $2`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query, deletedDate, commentID)
	if err != nil {
		return fmt.Errorf("failed to soft delete comment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return commenterrors.ErrCommentNotFound
	}

	return nil
}

// WithTransaction executes a function within a database transaction
func (r *postgresCommentRepository) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	tx, err := r.client.DB().BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	txCtx := context.WithValue(ctx, "tx", tx)
	err = fn(txCtx)

	return err
}
