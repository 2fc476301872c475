package completion

import (
	"context"

	"github.com/stretchr/testify/mock"

	"slackassistant/models"
)

type MockCompletionService struct {
	mock.Mock
}

func (m *MockCompletionService) IsConfigured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockCompletionService) GenerateReply(ctx context.Context, history []models.ThreadMessage) (string, error) {
	args := m.Called(ctx, history)
	return args.String(0), args.Error(1)
}
