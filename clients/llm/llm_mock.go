package llm

import (
	"context"

	"github.com/stretchr/testify/mock"

	"slackassistant/clients"
)

// MockCompletionClient is a mock implementation of clients.CompletionClient
type MockCompletionClient struct {
	mock.Mock
}

// NewMockCompletionClient creates a new mock client for testing
func NewMockCompletionClient() *MockCompletionClient {
	return &MockCompletionClient{}
}

// Complete mocks a chat completion call
func (m *MockCompletionClient) Complete(
	ctx context.Context,
	req clients.CompletionRequest,
) (*clients.CompletionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.CompletionResponse), args.Error(1)
}

func (m *MockCompletionClient) Provider() clients.Provider {
	return clients.ProviderLiteLLM
}

func (m *MockCompletionClient) Model() string {
	return "mock-model"
}

// WithReply configures mock to answer every completion with content
func (m *MockCompletionClient) WithReply(content string) *MockCompletionClient {
	m.On("Complete", mock.Anything, mock.Anything).Return(&clients.CompletionResponse{Content: content}, nil)
	return m
}

// WithError configures mock to fail every completion
func (m *MockCompletionClient) WithError(err error) *MockCompletionClient {
	m.On("Complete", mock.Anything, mock.Anything).Return(nil, err)
	return m
}
