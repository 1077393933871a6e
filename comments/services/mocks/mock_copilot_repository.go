package mocks

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"

	copilotRepository "github.com/YuumiDiary/MaaBackendCenter/copilots/repository"
)

// MockCopilotRepository is a mock implementation of CopilotRepository
type MockCopilotRepository struct {
	mock.Mock
}

var _ copilotRepository.CopilotRepository = (*MockCopilotRepository)(nil)

func (m *MockCopilotRepository) Exists(ctx context.Context, copilotID uuid.UUID) (bool, error) {
	args := m.Called(ctx, copilotID)
	return args.Bool(0), args.Error(1)
}
