package assistant

import (
	"math/rand/v2"
	"time"

	"slackassistant/clients"
	"slackassistant/models"
	"slackassistant/services"
)

// User-facing copy
const (
	GreetingText              = ":wave: How can I help you today?"
	GenerateRandomNumbersText = "Generate random numbers"
	NotConfiguredReply        = "Sorry, I couldn't understand your comment. Could you say it another way?"
	ErrorNotice               = ":warning: Sorry, an error occurred while processing your request."
	AppMentionReply           = ":wave: I'll help you in DMs!"
	TypingStatus              = "is typing..."
	SuggestedPromptsTitle     = "Try one of these:"
)

// Slack identifiers shared between the greeting button, the modal and the follow-up bot message
const (
	ActionGenerateRandomNumbers    = "assistant-generate-random-numbers"
	MetadataGenerateRandomNumbers  = "assistant-generate-random-numbers"
	CallbackConfigureRandomNumbers = "configure_assistant_summarize_channel"
	RandomNumbersBlockID           = "num"
	RandomNumbersActionID          = "input"
	RandomNumbersPayloadKey        = "num"
)

// AssistantUseCase implements the behaviour behind every registered assistant event
type AssistantUseCase struct {
	slackClient       clients.SlackClient
	completionService services.CompletionService
	routes            []Route
	suggestedPrompts  []models.SuggestedPrompt

	intN               func(n int) int
	randomNumbersDelay time.Duration
	helpPageDelay      time.Duration
}

// NewAssistantUseCase creates a new instance of AssistantUseCase
func NewAssistantUseCase(
	slackClient clients.SlackClient,
	completionService services.CompletionService,
	keywordReplies map[string]string,
	suggestedPrompts []string,
) *AssistantUseCase {
	prompts := make([]models.SuggestedPrompt, 0, len(suggestedPrompts))
	for _, prompt := range suggestedPrompts {
		prompts = append(prompts, models.SuggestedPrompt{Title: prompt, Message: prompt})
	}

	u := &AssistantUseCase{
		slackClient:        slackClient,
		completionService:  completionService,
		suggestedPrompts:   prompts,
		intN:               rand.IntN,
		randomNumbersDelay: time.Second,
		helpPageDelay:      500 * time.Millisecond,
	}
	u.routes = u.buildRoutes(keywordReplies)
	return u
}
