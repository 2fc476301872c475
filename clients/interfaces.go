package clients

import (
	"context"

	"github.com/slack-go/slack"

	"slackassistant/models"
)

// SlackClient defines the Slack Web API operations the assistant needs
type SlackClient interface {
	// Bot operations
	AuthTest(ctx context.Context) (*SlackAuthTestResponse, error)

	// Message operations
	PostMessage(ctx context.Context, channelID string, params SlackMessageParams) (*SlackPostMessageResponse, error)
	GetThreadReplies(ctx context.Context, channelID, threadTS string) ([]models.ThreadMessage, error)

	// View operations
	OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error

	// Assistant thread operations
	SetAssistantStatus(ctx context.Context, channelID, threadTS, status string) error
	SetAssistantTitle(ctx context.Context, channelID, threadTS, title string) error
	SetAssistantSuggestedPrompts(
		ctx context.Context,
		channelID, threadTS, title string,
		prompts []models.SuggestedPrompt,
	) error
}

// CompletionClient defines a chat completion backend
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	Provider() Provider
	Model() string
}
