package llm

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"slackassistant/clients"
	"slackassistant/models"
)

// defaultAnthropicMaxTokens is used when the request does not set a limit; the Messages API requires one
const defaultAnthropicMaxTokens = 4096

type anthropicClient struct {
	client anthropic.Client
	model  string
}

func newAnthropicClient(apiKey, model string, opts ...option.RequestOption) *anthropicClient {
	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)

	return &anthropicClient{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

// Complete ignores req.Stream; the reply is posted once either way
func (c *anthropicClient) Complete(ctx context.Context, req clients.CompletionRequest) (*clients.CompletionResponse, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	system, messages := convertAnthropicMessages(req.Messages)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(maxTokens),
		Messages:  messages,
	}
	if len(system) > 0 {
		params.System = system
	}

	start := time.Now()
	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic messages: %w", err)
	}

	log.Printf("🤖 anthropic completion finished (model: %s, duration: %dms, input tokens: %d, output tokens: %d)",
		c.model, time.Since(start).Milliseconds(), resp.Usage.InputTokens, resp.Usage.OutputTokens)

	result := &clients.CompletionResponse{
		PromptTokens:     int(resp.Usage.InputTokens),
		CompletionTokens: int(resp.Usage.OutputTokens),
	}
	for _, block := range resp.Content {
		if block.Type == "text" {
			result.Content += block.Text
		}
	}
	return result, nil
}

func (c *anthropicClient) Provider() clients.Provider {
	return clients.ProviderAnthropic
}

func (c *anthropicClient) Model() string {
	return c.model
}

// convertAnthropicMessages splits out the system prompt; the Messages API takes it separately
func convertAnthropicMessages(msgs []models.PromptMessage) ([]anthropic.TextBlockParam, []anthropic.MessageParam) {
	var system []anthropic.TextBlockParam
	messages := make([]anthropic.MessageParam, 0, len(msgs))

	for _, msg := range msgs {
		switch msg.Role {
		case models.PromptRoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
		case models.PromptRoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	return system, messages
}
