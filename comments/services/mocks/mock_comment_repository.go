package mocks

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/YuumiDiary/MaaBackendCenter/comments/models"
	commentRepository "github.com/YuumiDiary/MaaBackendCenter/comments/repository"
)

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	mock.Mock
}

var _ commentRepository.CommentRepository = (*MockCommentRepository)(nil)

func (m *MockCommentRepository) Insert(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) FindByID(ctx context.Context, commentID uuid.UUID) (*models.Comment, error) {
	args := m.Called(ctx, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) FindByIDForUpdate(ctx context.Context, commentID uuid.UUID) (*models.Comment, error) {
	args := m.Called(ctx, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) Save(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) FindThreadPage(ctx context.Context, copilotID uuid.UUID, sort commentRepository.ThreadSort, limit, offset int) ([]*models.Comment, error) {
	args := m.Called(ctx, copilotID, sort, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) FindReplies(ctx context.Context, mainCommentID uuid.UUID) ([]*models.Comment, error) {
	args := m.Called(ctx, mainCommentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) CountByCopilotID(ctx context.Context, copilotID uuid.UUID) (int64, error) {
	args := m.Called(ctx, copilotID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommentRepository) CountReplies(ctx context.Context, mainCommentID uuid.UUID) (int64, error) {
	args := m.Called(ctx, mainCommentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommentRepository) SoftDelete(ctx context.Context, commentID uuid.UUID, deletedDate int64) error {
	args := m.Called(ctx, commentID, deletedDate)
	return args.Error(0)
}

// WithTransaction runs fn inline so service tests exercise the transactional
// body without a database.
func (m *MockCommentRepository) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}
