package completion

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/samber/mo"

	"slackassistant/clients"
	"slackassistant/core"
	"slackassistant/models"
	"slackassistant/services/prompt"
)

// DefaultSystemInstruction carries the Slack mrkdwn formatting contract; replies are posted unmodified
const DefaultSystemInstruction = `You are a helpful assistant chatting with people in Slack.
Reply in plain text using Slack's mrkdwn dialect, not standard Markdown:
- Bold is *text* with single asterisks. Never write **text**.
- Italic is _text_ and strikethrough is ~text~.
- Links are written as <https://example.com|link text>, never [text](url).
- Do not use headings (#). Use a bold line instead.
- Code blocks are fenced with three backticks and have no language tag.
Keep answers concise and answer in the language the user writes in.`

// EmptyPromptReply answers turns whose thread has no text to respond to
const EmptyPromptReply = "Please send me a message with some text and I'll do my best to help."

type Config struct {
	SystemInstruction string
	ContextBudget     int
	MaxOutputTokens   int
	Stream            bool
}

type CompletionServiceImpl struct {
	client       mo.Option[clients.CompletionClient]
	tokenCounter *core.TokenCounter
	config       Config
}

// NewCompletionService creates the completion pipeline; a None client leaves it unconfigured
func NewCompletionService(
	client mo.Option[clients.CompletionClient],
	tokenCounter *core.TokenCounter,
	config Config,
) *CompletionServiceImpl {
	if strings.TrimSpace(config.SystemInstruction) == "" {
		config.SystemInstruction = DefaultSystemInstruction
	}
	return &CompletionServiceImpl{
		client:       client,
		tokenCounter: tokenCounter,
		config:       config,
	}
}

func (s *CompletionServiceImpl) IsConfigured() bool {
	return s.client.IsPresent()
}

// GenerateReply builds the prompt from the thread history, trims it to the provider budget
// and returns the model's answer
func (s *CompletionServiceImpl) GenerateReply(ctx context.Context, history []models.ThreadMessage) (string, error) {
	client, ok := s.client.Get()
	if !ok {
		return "", fmt.Errorf("completion provider: %w", core.ErrNotConfigured)
	}

	log.Printf("📋 Starting to generate reply from %d thread messages (provider: %s, model: %s)",
		len(history), client.Provider(), client.Model())

	messages := prompt.BuildPrompt(history, s.config.SystemInstruction)
	if len(messages) == 1 {
		log.Printf("⚠️ Thread has no text to answer, skipping the completion call")
		return EmptyPromptReply, nil
	}
	built := len(messages)
	messages = prompt.Trim(messages, s.config.ContextBudget, s.tokenCounter.CountMessageTokens)
	if len(messages) < built {
		log.Printf("✂️ Trimmed %d oldest messages to fit the %d token budget", built-len(messages), s.config.ContextBudget)
	}

	resp, err := client.Complete(ctx, clients.CompletionRequest{
		Messages:  messages,
		MaxTokens: s.config.MaxOutputTokens,
		Stream:    s.config.Stream,
	})
	if err != nil {
		return "", fmt.Errorf("failed to get completion: %w", err)
	}
	if strings.TrimSpace(resp.Content) == "" {
		return "", fmt.Errorf("completion provider returned an empty reply")
	}

	log.Printf("📋 Completed successfully - generated reply (%d prompt messages)", len(messages))
	return resp.Content, nil
}
