package repository

import (
	"context"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commenterrors "github.com/YuumiDiary/MaaBackendCenter/comments/errors"
	"github.com/YuumiDiary/MaaBackendCenter/comments/models"
	"github.com/YuumiDiary/MaaBackendCenter/internal/database/postgres"
	platformconfig "github.com/YuumiDiary/MaaBackendCenter/internal/platform/config"
	"github.com/YuumiDiary/MaaBackendCenter/internal/testutil"
)

const commentsMigrationSQL = `
	CREATE TABLE IF NOT EXISTS comments (
		id UUID PRIMARY KEY,
		copilot_id UUID NOT NULL,
		owner_user_id UUID NOT NULL,
		main_comment_id UUID,
		reply_to_comment_id UUID,
		text TEXT NOT NULL,
		raters JSONB NOT NULL DEFAULT '{}'::jsonb,
		like_count BIGINT DEFAULT 0,
		is_deleted BOOLEAN DEFAULT FALSE,
		deleted_date BIGINT DEFAULT 0,
		created_date BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
		last_updated BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
	);

	CREATE INDEX IF NOT EXISTS idx_comments_copilot ON comments(copilot_id) WHERE main_comment_id IS NULL AND is_deleted = FALSE;
	CREATE INDEX IF NOT EXISTS idx_comments_main ON comments(main_comment_id) WHERE main_comment_id IS NOT NULL;
	CREATE INDEX IF NOT EXISTS idx_comments_like_count ON comments(copilot_id, like_count DESC) WHERE is_deleted = FALSE;
`

// newTestRepository connects to the test database and applies the comments
// migration. Each test isolates itself with a fresh copilot id, so the
// shared table needs no truncation between tests.
func newTestRepository(t *testing.T) CommentRepository {
	t.Helper()

	if os.Getenv("RUN_DB_TESTS") != "1" {
		t.Skip("set RUN_DB_TESTS=1 to run database tests")
	}

	tc := testutil.LoadTestConfig(t)
	port, err := strconv.Atoi(tc.PGPort)
	require.NoError(t, err, "invalid POSTGRES_PORT")

	ctx := context.Background()
	client, err := postgres.NewClient(ctx, &platformconfig.PostgreSQLConfig{
		Host:            tc.PGHost,
		Port:            port,
		Username:        tc.PGUser,
		Password:        tc.PGPassword,
		Database:        tc.PGDatabase,
		SSLMode:         "disable",
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
		ConnectTimeout:  5,
	})
	if err != nil {
		t.Skipf("PostgreSQL not available, skipping test: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	_, err = client.DB().ExecContext(ctx, commentsMigrationSQL)
	require.NoError(t, err, "Failed to apply comments migration")

	return NewPostgresCommentRepository(client)
}

func newStoredComment(t *testing.T, copilotID uuid.UUID, text string) *models.Comment {
	t.Helper()

	id, err := uuid.NewV4()
	require.NoError(t, err)
	owner, err := uuid.NewV4()
	require.NoError(t, err)

	return &models.Comment{
		ObjectId:    id,
		CopilotId:   copilotID,
		OwnerUserId: owner,
		Text:        text,
		Raters:      models.RaterMap{},
	}
}

func TestPostgresCommentRepository_InsertAndFindByID_RoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	copilotID, _ := uuid.NewV4()

	comment := newStoredComment(t, copilotID, "round trip")
	comment.Raters = models.RaterMap{"user-a": models.RatingLike, "user-b": models.RatingDislike}
	comment.LikeCount = comment.Raters.LikeTally()

	require.NoError(t, repo.Insert(ctx, comment))

	found, err := repo.FindByID(ctx, comment.ObjectId)
	require.NoError(t, err)
	assert.Equal(t, comment.ObjectId, found.ObjectId)
	assert.Equal(t, copilotID, found.CopilotId)
	assert.Equal(t, comment.OwnerUserId, found.OwnerUserId)
	assert.Equal(t, "round trip", found.Text)
	assert.Equal(t, comment.Raters, found.Raters)
	assert.Equal(t, int64(1), found.LikeCount)
	assert.Nil(t, found.MainCommentId)
	assert.False(t, found.Deleted)
	assert.NotZero(t, found.CreatedDate)
}

func TestPostgresCommentRepository_FindByID_Missing(t *testing.T) {
	repo := newTestRepository(t)
	missingID, _ := uuid.NewV4()

	_, err := repo.FindByID(context.Background(), missingID)

	assert.ErrorIs(t, err, commenterrors.ErrCommentNotFound)
}

func TestPostgresCommentRepository_WithTransaction_CommitPersistsSave(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	copilotID, _ := uuid.NewV4()

	comment := newStoredComment(t, copilotID, "before")
	require.NoError(t, repo.Insert(ctx, comment))

	err := repo.WithTransaction(ctx, func(txCtx context.Context) error {
		locked, err := repo.FindByIDForUpdate(txCtx, comment.ObjectId)
		if err != nil {
			return err
		}
		locked.Raters["rater-1"] = models.RatingLike
		locked.LikeCount = locked.Raters.LikeTally()
		return repo.Save(txCtx, locked)
	})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, comment.ObjectId)
	require.NoError(t, err)
	assert.Equal(t, models.RatingLike, found.Raters["rater-1"])
	assert.Equal(t, int64(1), found.LikeCount)
}

func TestPostgresCommentRepository_WithTransaction_ErrorRollsBack(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	copilotID, _ := uuid.NewV4()

	comment := newStoredComment(t, copilotID, "untouched")
	require.NoError(t, repo.Insert(ctx, comment))

	err := repo.WithTransaction(ctx, func(txCtx context.Context) error {
		locked, err := repo.FindByIDForUpdate(txCtx, comment.ObjectId)
		if err != nil {
			return err
		}
		locked.Raters["rater-1"] = models.RatingLike
		locked.LikeCount = locked.Raters.LikeTally()
		if err := repo.Save(txCtx, locked); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	found, err := repo.FindByID(ctx, comment.ObjectId)
	require.NoError(t, err)
	assert.Empty(t, found.Raters)
	assert.Equal(t, int64(0), found.LikeCount)
}

func TestPostgresCommentRepository_ConcurrentRating_NoLostUpdates(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	copilotID, _ := uuid.NewV4()

	comment := newStoredComment(t, copilotID, "contested")
	require.NoError(t, repo.Insert(ctx, comment))

	rate := func(raterID string) error {
		return repo.WithTransaction(ctx, func(txCtx context.Context) error {
			locked, err := repo.FindByIDForUpdate(txCtx, comment.ObjectId)
			if err != nil {
				return err
			}
			locked.Raters[raterID] = models.RatingLike
			locked.LikeCount = locked.Raters.LikeTally()
			return repo.Save(txCtx, locked)
		})
	}

	raters := []string{"rater-1", "rater-2", "rater-3", "rater-4"}
	var wg sync.WaitGroup
	errs := make([]error, len(raters))
	for i, raterID := range raters {
		wg.Add(1)
		go func(i int, raterID string) {
			defer wg.Done()
			errs[i] = rate(raterID)
		}(i, raterID)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "rater %d failed", i)
	}

	found, err := repo.FindByID(ctx, comment.ObjectId)
	require.NoError(t, err)
	assert.Len(t, found.Raters, len(raters), "a concurrent rating was lost")
	assert.Equal(t, int64(len(raters)), found.LikeCount)
}

func TestPostgresCommentRepository_SoftDelete_ExcludedFromListings(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	copilotID, _ := uuid.NewV4()

	root := newStoredComment(t, copilotID, "root")
	require.NoError(t, repo.Insert(ctx, root))

	reply := newStoredComment(t, copilotID, "reply")
	reply.MainCommentId = &root.ObjectId
	reply.ReplyToCommentId = &root.ObjectId
	require.NoError(t, repo.Insert(ctx, reply))

	count, err := repo.CountByCopilotID(ctx, copilotID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "only root comments count toward the copilot total")

	require.NoError(t, repo.SoftDelete(ctx, root.ObjectId, time.Now().Unix()))

	count, err = repo.CountByCopilotID(ctx, copilotID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	page, err := repo.FindThreadPage(ctx, copilotID, ThreadSort{}, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, page)

	// Root deletion does not cascade. The reply stays visible under its
	// thread until deleted on its own.
	replies, err := repo.FindReplies(ctx, root.ObjectId)
	require.NoError(t, err)
	require.Len(t, replies, 1)

	require.NoError(t, repo.SoftDelete(ctx, reply.ObjectId, time.Now().Unix()))

	replies, err = repo.FindReplies(ctx, root.ObjectId)
	require.NoError(t, err)
	assert.Empty(t, replies)

	replyCount, err := repo.CountReplies(ctx, root.ObjectId)
	require.NoError(t, err)
	assert.Equal(t, int64(0), replyCount)

	// Deleted rows stay readable by id for ownership checks.
	found, err := repo.FindByID(ctx, root.ObjectId)
	require.NoError(t, err)
	assert.True(t, found.Deleted)
	assert.NotZero(t, found.DeletedDate)
}

func TestPostgresCommentRepository_FindThreadPage_SortsAndPaginates(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	copilotID, _ := uuid.NewV4()

	likeCounts := []int64{5, 1, 3}
	ids := make([]uuid.UUID, len(likeCounts))
	for i, likes := range likeCounts {
		comment := newStoredComment(t, copilotID, "ranked")
		comment.LikeCount = likes
		comment.CreatedDate = int64(1700000000 + i)
		require.NoError(t, repo.Insert(ctx, comment))
		ids[i] = comment.ObjectId
	}

	page, err := repo.FindThreadPage(ctx, copilotID, ThreadSort{Field: "hot", Descending: true}, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[0], page[0].ObjectId)
	assert.Equal(t, ids[2], page[1].ObjectId)

	page, err = repo.FindThreadPage(ctx, copilotID, ThreadSort{Field: "hot", Descending: true}, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[1], page[0].ObjectId)

	page, err = repo.FindThreadPage(ctx, copilotID, ThreadSort{Field: "id", Descending: false}, 10, 0)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, ids[0], page[0].ObjectId)
	assert.Equal(t, ids[1], page[1].ObjectId)
	assert.Equal(t, ids[2], page[2].ObjectId)
}
