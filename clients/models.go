package clients

import (
	"github.com/samber/mo"
	"github.com/slack-go/slack"

	"slackassistant/models"
)

// SlackAuthTestResponse represents the response from Slack's auth.test API
type SlackAuthTestResponse struct {
	UserID string
	BotID  string
	TeamID string
}

// SlackPostMessageResponse represents the response from posting a message to Slack
type SlackPostMessageResponse struct {
	Channel   string
	Timestamp string
}

// SlackMessageParams holds parameters for sending Slack messages
type SlackMessageParams struct {
	Text     string
	ThreadTS mo.Option[string]
	Blocks   []slack.Block
	Metadata mo.Option[models.MessageMetadata]
}

type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderLiteLLM   Provider = "litellm"
	ProviderAnthropic Provider = "anthropic"
)

// CompletionRequest is one chat completion call
type CompletionRequest struct {
	Messages  []models.PromptMessage
	MaxTokens int
	Stream    bool
}

// CompletionResponse holds the completion text and token usage
type CompletionResponse struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
}
