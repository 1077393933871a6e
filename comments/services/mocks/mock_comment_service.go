package mocks

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/YuumiDiary/MaaBackendCenter/comments/models"
	"github.com/YuumiDiary/MaaBackendCenter/internal/types"
)

// MockCommentService is a mock implementation of CommentService
type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) CreateComment(ctx context.Context, req *models.CreateCommentRequest, owner types.UserContext) (*models.Comment, error) {
	args := m.Called(ctx, req, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentService) DeleteComment(ctx context.Context, commentID uuid.UUID, actor types.UserContext) error {
	args := m.Called(ctx, commentID, actor)
	return args.Error(0)
}

func (m *MockCommentService) RateComment(ctx context.Context, req *models.RateCommentRequest, actor types.UserContext) (*models.Comment, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentService) QueryThreads(ctx context.Context, filter *models.ThreadQueryFilter) (*models.ThreadListResponse, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ThreadListResponse), args.Error(1)
}

func (m *MockCommentService) GetComment(ctx context.Context, commentID uuid.UUID) (*models.Comment, error) {
	args := m.Called(ctx, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentService) GetRootCommentCount(ctx context.Context, copilotID uuid.UUID) (int64, error) {
	args := m.Called(ctx, copilotID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommentService) GetReplyCount(ctx context.Context, commentID uuid.UUID) (int64, error) {
	args := m.Called(ctx, commentID)
	return args.Get(0).(int64), args.Error(1)
}
