package llm

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"slackassistant/clients"
	"slackassistant/models"
)

// openaiClient talks to any OpenAI-compatible chat completions endpoint (Gemini, LiteLLM proxy)
type openaiClient struct {
	client   openai.Client
	provider clients.Provider
	model    string
}

func newOpenAICompatibleClient(provider clients.Provider, apiKey, baseURL, model string) *openaiClient {
	return &openaiClient{
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(baseURL),
			option.WithMaxRetries(0),
		),
		provider: provider,
		model:    model,
	}
}

func (c *openaiClient) Complete(ctx context.Context, req clients.CompletionRequest) (*clients.CompletionResponse, error) {
	params := openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: convertOpenAIMessages(req.Messages),
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}

	start := time.Now()
	var completion *openai.ChatCompletion
	if req.Stream {
		accumulated, err := c.completeStreaming(ctx, params)
		if err != nil {
			return nil, err
		}
		completion = accumulated
	} else {
		resp, err := c.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("%s chat completion: %w", c.provider, err)
		}
		completion = resp
	}

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%s chat completion: no choices in response", c.provider)
	}

	log.Printf("🤖 %s completion finished (model: %s, duration: %dms, prompt tokens: %d, completion tokens: %d)",
		c.provider, c.model, time.Since(start).Milliseconds(),
		completion.Usage.PromptTokens, completion.Usage.CompletionTokens)

	return &clients.CompletionResponse{
		Content:          completion.Choices[0].Message.Content,
		PromptTokens:     int(completion.Usage.PromptTokens),
		CompletionTokens: int(completion.Usage.CompletionTokens),
	}, nil
}

func (c *openaiClient) completeStreaming(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	stream := c.client.Chat.Completions.NewStreaming(ctx, params)
	defer stream.Close()

	acc := openai.ChatCompletionAccumulator{}
	for stream.Next() {
		acc.AddChunk(stream.Current())
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("%s chat completion stream: %w", c.provider, err)
	}
	return &acc.ChatCompletion, nil
}

func (c *openaiClient) Provider() clients.Provider {
	return c.provider
}

func (c *openaiClient) Model() string {
	return c.model
}

func convertOpenAIMessages(msgs []models.PromptMessage) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, msg := range msgs {
		switch msg.Role {
		case models.PromptRoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		case models.PromptRoleAssistant:
			result = append(result, openai.AssistantMessage(msg.Content))
		default:
			result = append(result, openai.UserMessage(msg.Content))
		}
	}
	return result
}
