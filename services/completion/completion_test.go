package completion

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"slackassistant/clients"
	"slackassistant/clients/llm"
	"slackassistant/core"
	"slackassistant/models"
)

var testHistory = []models.ThreadMessage{
	{SubType: models.SubtypeAssistantAppThread, AuthorKind: models.AuthorKindBot, Text: "New Assistant Thread"},
	{AuthorKind: models.AuthorKindBot, Text: ":wave: How can I help you today?"},
	{AuthorKind: models.AuthorKindHuman, Text: "What is Go?"},
}

func setupCompletionService(client *llm.MockCompletionClient, config Config) *CompletionServiceImpl {
	return NewCompletionService(mo.Some[clients.CompletionClient](client), core.NewTokenCounter(), config)
}

func TestGenerateReply(t *testing.T) {
	t.Run("NotConfigured", func(t *testing.T) {
		service := NewCompletionService(mo.None[clients.CompletionClient](), core.NewTokenCounter(), Config{})

		reply, err := service.GenerateReply(context.Background(), testHistory)

		assert.False(t, service.IsConfigured())
		assert.Empty(t, reply)
		assert.True(t, errors.Is(err, core.ErrNotConfigured))
	})

	t.Run("Success_SendsBuiltPrompt", func(t *testing.T) {
		client := llm.NewMockCompletionClient()
		client.On("Complete", mock.Anything, mock.MatchedBy(func(req clients.CompletionRequest) bool {
			return len(req.Messages) == 2 &&
				req.Messages[0] == models.PromptMessage{Role: models.PromptRoleSystem, Content: "S"} &&
				req.Messages[1] == models.PromptMessage{Role: models.PromptRoleUser, Content: "What is Go?"} &&
				req.MaxTokens == 512 &&
				req.Stream
		})).Return(&clients.CompletionResponse{Content: "A *programming* language."}, nil)

		service := setupCompletionService(client, Config{
			SystemInstruction: "S",
			ContextBudget:     10_000,
			MaxOutputTokens:   512,
			Stream:            true,
		})

		reply, err := service.GenerateReply(context.Background(), testHistory)

		require.NoError(t, err)
		assert.True(t, service.IsConfigured())
		assert.Equal(t, "A *programming* language.", reply)
		client.AssertExpectations(t)
	})

	t.Run("Success_DefaultSystemInstruction", func(t *testing.T) {
		client := llm.NewMockCompletionClient()
		client.On("Complete", mock.Anything, mock.MatchedBy(func(req clients.CompletionRequest) bool {
			return req.Messages[0].Content == DefaultSystemInstruction
		})).Return(&clients.CompletionResponse{Content: "ok"}, nil)

		service := setupCompletionService(client, Config{ContextBudget: 10_000})

		_, err := service.GenerateReply(context.Background(), testHistory)

		require.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("Success_TrimsToBudget", func(t *testing.T) {
		history := []models.ThreadMessage{
			{AuthorKind: models.AuthorKindHuman, Text: strings.Repeat("old question ", 200)},
			{AuthorKind: models.AuthorKindBot, Text: strings.Repeat("old answer ", 200)},
			{AuthorKind: models.AuthorKindHuman, Text: "new question"},
		}

		client := llm.NewMockCompletionClient()
		client.On("Complete", mock.Anything, mock.MatchedBy(func(req clients.CompletionRequest) bool {
			return len(req.Messages) == 2 && req.Messages[1].Content == "new question"
		})).Return(&clients.CompletionResponse{Content: "ok"}, nil)

		service := setupCompletionService(client, Config{SystemInstruction: "S", ContextBudget: 50})

		_, err := service.GenerateReply(context.Background(), history)

		require.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("Error_ProviderFailure", func(t *testing.T) {
		client := llm.NewMockCompletionClient().WithError(errors.New("rate limited"))
		service := setupCompletionService(client, Config{ContextBudget: 10_000})

		_, err := service.GenerateReply(context.Background(), testHistory)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limited")
		assert.False(t, core.IsNotConfiguredError(err))
	})

	t.Run("Error_EmptyReply", func(t *testing.T) {
		client := llm.NewMockCompletionClient().WithReply("   ")
		service := setupCompletionService(client, Config{ContextBudget: 10_000})

		_, err := service.GenerateReply(context.Background(), testHistory)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty reply")
	})

	t.Run("Success_NoTextSkipsProvider", func(t *testing.T) {
		histories := [][]models.ThreadMessage{
			nil,
			{{SubType: models.SubtypeAssistantAppThread, AuthorKind: models.AuthorKindBot, Text: "New Assistant Thread"}},
			{
				{AuthorKind: models.AuthorKindBot, Text: ":wave: How can I help you today?"},
				{AuthorKind: models.AuthorKindHuman, SubType: "file_share", Text: "  "},
			},
		}

		for _, history := range histories {
			client := llm.NewMockCompletionClient()
			service := setupCompletionService(client, Config{ContextBudget: 10_000})

			reply, err := service.GenerateReply(context.Background(), history)

			require.NoError(t, err)
			assert.Equal(t, EmptyPromptReply, reply)
			client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
		}
	})
}
