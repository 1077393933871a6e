package services

import (
	"context"
	"math"

	uuid "github.com/gofrs/uuid"

	"github.com/YuumiDiary/MaaBackendCenter/comments/common"
	commenterrors "github.com/YuumiDiary/MaaBackendCenter/comments/errors"
	"github.com/YuumiDiary/MaaBackendCenter/comments/models"
	"github.com/YuumiDiary/MaaBackendCenter/comments/repository"
	"github.com/YuumiDiary/MaaBackendCenter/comments/validation"
	copilotrepo "github.com/YuumiDiary/MaaBackendCenter/copilots/repository"
	"github.com/YuumiDiary/MaaBackendCenter/internal/cache"
	"github.com/YuumiDiary/MaaBackendCenter/internal/pkg/log"
	"github.com/YuumiDiary/MaaBackendCenter/internal/types"
	"github.com/YuumiDiary/MaaBackendCenter/internal/utils"
	"github.com/YuumiDiary/MaaBackendCenter/shared/interfaces"
	userrepo "github.com/YuumiDiary/MaaBackendCenter/users/repository"
)

// Labels substituted when the referenced record is gone.
const (
	deletedUserLabel    = "account deleted"
	deletedCommentLabel = "comment no longer exists"
)

type commentService struct {
	repo        repository.CommentRepository
	copilotRepo copilotrepo.CopilotRepository
	userRepo    userrepo.UserRepository
	cache       *cache.GenericCacheService
}

var _ interfaces.CommentCounter = (CommentService)(nil)

// NewCommentService creates a comment service backed by the given repositories.
func NewCommentService(
	repo repository.CommentRepository,
	copilotRepo copilotrepo.CopilotRepository,
	userRepo userrepo.UserRepository,
	cacheService *cache.GenericCacheService,
) CommentService {
	return &commentService{
		repo:        repo,
		copilotRepo: copilotRepo,
		userRepo:    userRepo,
		cache:       cacheService,
	}
}

// resolveThreading places a new comment in its thread. A reply to a root
// comment joins that root's thread; a reply to a reply joins the target's
// thread, so threads never nest deeper than one level.
func (s *commentService) resolveThreading(ctx context.Context, comment *models.Comment, replyToID *uuid.UUID) error {
	if replyToID == nil || *replyToID == uuid.Nil {
		return nil
	}

	target, err := s.repo.FindByID(ctx, *replyToID)
	if err != nil {
		return err
	}
	if target.Deleted {
		return commenterrors.ErrCommentNotFound
	}

	comment.ReplyToCommentId = replyToID
	comment.CopilotId = target.CopilotId
	if target.IsRoot() {
		comment.MainCommentId = &target.ObjectId
	} else {
		comment.MainCommentId = target.MainCommentId
	}

	return nil
}

// CreateComment creates a root comment or a reply
func (s *commentService) CreateComment(ctx context.Context, req *models.CreateCommentRequest, owner types.UserContext) (*models.Comment, error) {
	if err := validation.ValidateCreateCommentRequest(req); err != nil {
		return nil, err
	}

	exists, err := s.copilotRepo.Exists(ctx, req.CopilotId)
	if err != nil {
		log.Error("Failed to check copilot existence: %s", err.Error())
		return nil, err
	}
	if !exists {
		return nil, commenterrors.ErrCopilotNotFound
	}

	commentID, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	now := utils.UTCNowUnix()
	comment := &models.Comment{
		ObjectId:    commentID,
		CopilotId:   req.CopilotId,
		OwnerUserId: owner.UserID,
		Text:        req.Text,
		Raters:      models.RaterMap{},
		CreatedDate: now,
		LastUpdated: now,
	}

	if err := s.resolveThreading(ctx, comment, req.ReplyToCommentId); err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, comment); err != nil {
		log.Error("Failed to insert comment: %s", err.Error())
		return nil, err
	}

	s.invalidateThreadCache(ctx, comment.CopilotId)

	return comment, nil
}

// DeleteComment soft deletes a comment owned by the actor
func (s *commentService) DeleteComment(ctx context.Context, commentID uuid.UUID, actor types.UserContext) error {
	comment, err := s.repo.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.Deleted {
		return commenterrors.ErrCommentNotFound
	}
	if comment.OwnerUserId != actor.UserID && actor.SystemRole != types.AdminRole {
		return commenterrors.ErrCommentOwnershipRequired
	}

	if err := s.repo.SoftDelete(ctx, commentID, utils.UTCNowUnix()); err != nil {
		log.Error("Failed to soft delete comment %s: %s", commentID.String(), err.Error())
		return err
	}

	s.invalidateThreadCache(ctx, comment.CopilotId)
	s.invalidateCommentCache(ctx, commentID)

	return nil
}

// RateComment records the actor's rating and refreshes the like count. The
// read-modify-write runs under a row lock so concurrent raters serialize.
func (s *commentService) RateComment(ctx context.Context, req *models.RateCommentRequest, actor types.UserContext) (*models.Comment, error) {
	if err := validation.ValidateRateCommentRequest(req); err != nil {
		return nil, err
	}

	var rated *models.Comment
	err := s.repo.WithTransaction(ctx, func(txCtx context.Context) error {
		comment, err := s.repo.FindByIDForUpdate(txCtx, req.CommentId)
		if err != nil {
			return err
		}
		if comment.Deleted {
			return commenterrors.ErrCommentNotFound
		}

		if comment.Raters == nil {
			comment.Raters = models.RaterMap{}
		}
		comment.Raters[actor.UserID.String()] = req.Rating
		comment.LikeCount = comment.Raters.LikeTally()

		if err := s.repo.Save(txCtx, comment); err != nil {
			return err
		}

		rated = comment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateThreadCache(ctx, rated.CopilotId)
	s.invalidateCommentCache(ctx, rated.ObjectId)

	return rated, nil
}

// QueryThreads returns a page of comment threads for a copilot
func (s *commentService) QueryThreads(ctx context.Context, filter *models.ThreadQueryFilter) (*models.ThreadListResponse, error) {
	if filter.CopilotId == uuid.Nil {
		return nil, commenterrors.ErrInvalidCopilotId
	}
	validation.SanitizeThreadQueryFilter(filter)

	cacheKey := common.BuildThreadCacheKey(filter.CopilotId, filter.Page, filter.Limit, filter.OrderBy, filter.Descending)
	if s.cache.IsEnabled() {
		var cached models.ThreadListResponse
		if err := s.cache.GetCached(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	total, err := s.repo.CountByCopilotID(ctx, filter.CopilotId)
	if err != nil {
		log.Error("Failed to count threads: %s", err.Error())
		return nil, err
	}

	sort := repository.ThreadSort{Field: filter.OrderBy, Descending: filter.Descending}
	offset := (filter.Page - 1) * filter.Limit
	roots, err := s.repo.FindThreadPage(ctx, filter.CopilotId, sort, filter.Limit, offset)
	if err != nil {
		log.Error("Failed to find thread page: %s", err.Error())
		return nil, err
	}

	threads := make([]models.CommentInfo, 0, len(roots))
	for _, root := range roots {
		info, err := s.buildThread(ctx, root)
		if err != nil {
			return nil, err
		}
		threads = append(threads, *info)
	}

	response := &models.ThreadListResponse{
		HasNext: total-int64(filter.Page)*int64(filter.Limit) > 0,
		Page:    totalPages(total, filter.Limit),
		Total:   total,
		Threads: threads,
	}

	if s.cache.IsEnabled() {
		if err := s.cache.CacheData(ctx, cacheKey, response, 0); err != nil {
			log.Warn("Failed to cache thread page: %s", err.Error())
		}
	}

	return response, nil
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// buildThread assembles the read model for one root comment and its replies.
func (s *commentService) buildThread(ctx context.Context, root *models.Comment) (*models.CommentInfo, error) {
	replies, err := s.repo.FindReplies(ctx, root.ObjectId)
	if err != nil {
		log.Error("Failed to find replies for comment %s: %s", root.ObjectId.String(), err.Error())
		return nil, err
	}

	// Every comment visible in this thread, for reply-target lookups. A
	// target absent from this map has been deleted.
	byID := make(map[uuid.UUID]*models.Comment, len(replies)+1)
	byID[root.ObjectId] = root
	for _, reply := range replies {
		byID[reply.ObjectId] = reply
	}

	names := s.resolveDisplayNames(ctx, byID)

	info := &models.CommentInfo{
		ObjectId:    root.ObjectId.String(),
		CopilotId:   root.CopilotId.String(),
		OwnerUserId: root.OwnerUserId.String(),
		Uploader:    names[root.OwnerUserId],
		Text:        root.Text,
		LikeCount:   root.LikeCount,
		CreatedDate: root.CreatedDate,
		SubComments: make([]models.SubCommentInfo, 0, len(replies)),
	}

	for _, reply := range replies {
		sub := models.SubCommentInfo{
			ObjectId:    reply.ObjectId.String(),
			CopilotId:   reply.CopilotId.String(),
			OwnerUserId: reply.OwnerUserId.String(),
			Uploader:    names[reply.OwnerUserId],
			Text:        reply.Text,
			LikeCount:   reply.LikeCount,
			CreatedDate: reply.CreatedDate,
		}
		if reply.MainCommentId != nil {
			sub.MainCommentId = reply.MainCommentId.String()
		}
		if reply.ReplyToCommentId != nil {
			sub.ReplyToCommentId = reply.ReplyToCommentId.String()
			if target, ok := byID[*reply.ReplyToCommentId]; ok {
				sub.ReplyTo = names[target.OwnerUserId]
			} else {
				sub.ReplyTo = deletedCommentLabel
			}
		}
		info.SubComments = append(info.SubComments, sub)
	}

	return info, nil
}

// resolveDisplayNames maps every comment owner in the thread to a display
// name. Lookup failures fall back to the deleted-account label so a broken
// profile never breaks the listing.
func (s *commentService) resolveDisplayNames(ctx context.Context, byID map[uuid.UUID]*models.Comment) map[uuid.UUID]string {
	ownerSet := make(map[uuid.UUID]struct{}, len(byID))
	for _, comment := range byID {
		ownerSet[comment.OwnerUserId] = struct{}{}
	}
	ownerIDs := make([]uuid.UUID, 0, len(ownerSet))
	for id := range ownerSet {
		ownerIDs = append(ownerIDs, id)
	}

	resolved, err := s.userRepo.FindDisplayNames(ctx, ownerIDs)
	if err != nil {
		log.Warn("Failed to resolve display names: %s", err.Error())
		resolved = map[uuid.UUID]string{}
	}

	names := make(map[uuid.UUID]string, len(ownerIDs))
	for _, id := range ownerIDs {
		if name, ok := resolved[id]; ok {
			names[id] = name
		} else {
			names[id] = deletedUserLabel
		}
	}

	return names
}

// GetComment retrieves a single visible comment
func (s *commentService) GetComment(ctx context.Context, commentID uuid.UUID) (*models.Comment, error) {
	cacheKey := common.BuildCommentCacheKey(commentID)
	if s.cache.IsEnabled() {
		var cached models.Comment
		if err := s.cache.GetCached(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	comment, err := s.repo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.Deleted {
		return nil, commenterrors.ErrCommentNotFound
	}

	if s.cache.IsEnabled() {
		if err := s.cache.CacheData(ctx, cacheKey, comment, 0); err != nil {
			log.Warn("Failed to cache comment: %s", err.Error())
		}
	}

	return comment, nil
}

// GetRootCommentCount counts visible root comments for a copilot
func (s *commentService) GetRootCommentCount(ctx context.Context, copilotID uuid.UUID) (int64, error) {
	return s.repo.CountByCopilotID(ctx, copilotID)
}

// GetReplyCount counts visible replies under a comment
func (s *commentService) GetReplyCount(ctx context.Context, commentID uuid.UUID) (int64, error) {
	return s.repo.CountReplies(ctx, commentID)
}

func (s *commentService) invalidateThreadCache(ctx context.Context, copilotID uuid.UUID) {
	if !s.cache.IsEnabled() {
		return
	}
	if err := s.cache.InvalidatePattern(ctx, common.BuildThreadCachePattern(copilotID)); err != nil {
		log.Warn("Failed to invalidate thread cache for copilot %s: %s", copilotID.String(), err.Error())
	}
}

func (s *commentService) invalidateCommentCache(ctx context.Context, commentID uuid.UUID) {
	if !s.cache.IsEnabled() {
		return
	}
	if err := s.cache.Invalidate(ctx, common.BuildCommentCacheKey(commentID)); err != nil {
		log.Warn("Failed to invalidate comment cache for %s: %s", commentID.String(), err.Error())
	}
}
