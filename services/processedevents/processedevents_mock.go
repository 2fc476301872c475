package processedevents

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockProcessedEventsService struct {
	mock.Mock
}

func (m *MockProcessedEventsService) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProcessedEventsService) CleanupExpired(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
