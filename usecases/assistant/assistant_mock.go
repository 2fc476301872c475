package assistant

import (
	"context"

	"github.com/stretchr/testify/mock"

	"slackassistant/models"
)

// MockDispatcher stands in for Registry in transport tests
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, event models.AssistantEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
