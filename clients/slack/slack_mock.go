package slack

import (
	"context"
	"sync"

	"github.com/slack-go/slack"

	"slackassistant/clients"
	"slackassistant/models"
)

// MockSlackClient implements SlackClient interface for testing
type MockSlackClient struct {
	// Bot operations
	MockAuthTest func(ctx context.Context) (*clients.SlackAuthTestResponse, error)

	// Message operations
	MockPostMessage      func(ctx context.Context, channelID string, params clients.SlackMessageParams) (*clients.SlackPostMessageResponse, error)
	MockGetThreadReplies func(ctx context.Context, channelID, threadTS string) ([]models.ThreadMessage, error)

	// View operations
	MockOpenView func(ctx context.Context, triggerID string, view slack.ModalViewRequest) error

	// Assistant thread operations
	MockSetAssistantStatus           func(ctx context.Context, channelID, threadTS, status string) error
	MockSetAssistantTitle            func(ctx context.Context, channelID, threadTS, title string) error
	MockSetAssistantSuggestedPrompts func(ctx context.Context, channelID, threadTS, title string, prompts []models.SuggestedPrompt) error

	mu           sync.Mutex
	PostedParams []clients.SlackMessageParams
	Statuses     []string
	Titles       []string
	OpenedViews  []slack.ModalViewRequest
}

// NewMockSlackClient creates a new mock Slack client
func NewMockSlackClient() *MockSlackClient {
	return &MockSlackClient{}
}

// AuthTest implements SlackClient interface for testing
func (m *MockSlackClient) AuthTest(ctx context.Context) (*clients.SlackAuthTestResponse, error) {
	if m.MockAuthTest != nil {
		return m.MockAuthTest(ctx)
	}

	// Default mock response
	return &clients.SlackAuthTestResponse{
		UserID: "U123456789",
		BotID:  "B123456789",
		TeamID: "T123456789",
	}, nil
}

// PostMessage implements SlackClient interface for testing
func (m *MockSlackClient) PostMessage(
	ctx context.Context,
	channelID string,
	params clients.SlackMessageParams,
) (*clients.SlackPostMessageResponse, error) {
	m.mu.Lock()
	m.PostedParams = append(m.PostedParams, params)
	m.mu.Unlock()

	if m.MockPostMessage != nil {
		return m.MockPostMessage(ctx, channelID, params)
	}

	// Default mock response
	return &clients.SlackPostMessageResponse{
		Channel:   channelID,
		Timestamp: "1234567890.123456",
	}, nil
}

// GetThreadReplies implements SlackClient interface for testing
func (m *MockSlackClient) GetThreadReplies(ctx context.Context, channelID, threadTS string) ([]models.ThreadMessage, error) {
	if m.MockGetThreadReplies != nil {
		return m.MockGetThreadReplies(ctx, channelID, threadTS)
	}

	// Default mock response - empty thread
	return []models.ThreadMessage{}, nil
}

// OpenView implements SlackClient interface for testing
func (m *MockSlackClient) OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error {
	m.mu.Lock()
	m.OpenedViews = append(m.OpenedViews, view)
	m.mu.Unlock()

	if m.MockOpenView != nil {
		return m.MockOpenView(ctx, triggerID, view)
	}
	return nil
}

// SetAssistantStatus implements SlackClient interface for testing
func (m *MockSlackClient) SetAssistantStatus(ctx context.Context, channelID, threadTS, status string) error {
	m.mu.Lock()
	m.Statuses = append(m.Statuses, status)
	m.mu.Unlock()

	if m.MockSetAssistantStatus != nil {
		return m.MockSetAssistantStatus(ctx, channelID, threadTS, status)
	}
	return nil
}

// SetAssistantTitle implements SlackClient interface for testing
func (m *MockSlackClient) SetAssistantTitle(ctx context.Context, channelID, threadTS, title string) error {
	m.mu.Lock()
	m.Titles = append(m.Titles, title)
	m.mu.Unlock()

	if m.MockSetAssistantTitle != nil {
		return m.MockSetAssistantTitle(ctx, channelID, threadTS, title)
	}
	return nil
}

// SetAssistantSuggestedPrompts implements SlackClient interface for testing
func (m *MockSlackClient) SetAssistantSuggestedPrompts(
	ctx context.Context,
	channelID, threadTS, title string,
	prompts []models.SuggestedPrompt,
) error {
	if m.MockSetAssistantSuggestedPrompts != nil {
		return m.MockSetAssistantSuggestedPrompts(ctx, channelID, threadTS, title, prompts)
	}
	return nil
}

// PostedTexts returns the text of every posted message in order
func (m *MockSlackClient) PostedTexts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	texts := make([]string, 0, len(m.PostedParams))
	for _, params := range m.PostedParams {
		texts = append(texts, params.Text)
	}
	return texts
}

// WithThreadReplies sets up mock to return a fixed thread history
func (m *MockSlackClient) WithThreadReplies(messages []models.ThreadMessage) *MockSlackClient {
	m.MockGetThreadReplies = func(ctx context.Context, channelID, threadTS string) ([]models.ThreadMessage, error) {
		return messages, nil
	}
	return m
}

// WithThreadRepliesError sets up mock to fail fetching thread history
func (m *MockSlackClient) WithThreadRepliesError(err error) *MockSlackClient {
	m.MockGetThreadReplies = func(ctx context.Context, channelID, threadTS string) ([]models.ThreadMessage, error) {
		return nil, err
	}
	return m
}
