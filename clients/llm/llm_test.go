package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slackassistant/clients"
	"slackassistant/models"
)

func TestResolveModel(t *testing.T) {
	tests := []struct {
		name             string
		model            string
		expectedProvider clients.Provider
		expectedModel    string
	}{
		{name: "gemini model", model: "gemini-1.5-flash", expectedProvider: clients.ProviderGemini, expectedModel: "gemini-1.5-flash"},
		{name: "gemini routing prefix", model: "gemini/gemini-2.0-flash", expectedProvider: clients.ProviderGemini, expectedModel: "gemini-2.0-flash"},
		{name: "claude model", model: "claude-3-5-sonnet-20241022", expectedProvider: clients.ProviderAnthropic, expectedModel: "claude-3-5-sonnet-20241022"},
		{name: "anthropic routing prefix", model: "anthropic/claude-3-haiku", expectedProvider: clients.ProviderAnthropic, expectedModel: "claude-3-haiku"},
		{name: "litellm routing prefix", model: "litellm/gpt-4o", expectedProvider: clients.ProviderLiteLLM, expectedModel: "gpt-4o"},
		{name: "anything else goes through litellm", model: "gpt-4o-mini", expectedProvider: clients.ProviderLiteLLM, expectedModel: "gpt-4o-mini"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, model := ResolveModel(tt.model)
			assert.Equal(t, tt.expectedProvider, provider)
			assert.Equal(t, tt.expectedModel, model)
		})
	}
}

func TestDefaultContextBudget(t *testing.T) {
	assert.Equal(t, 1_000_000, DefaultContextBudget(clients.ProviderGemini))
	assert.Equal(t, 200_000, DefaultContextBudget(clients.ProviderAnthropic))
	assert.Equal(t, 8_192, DefaultContextBudget(clients.ProviderLiteLLM))
	assert.Equal(t, 8_192, DefaultContextBudget(clients.Provider("unknown")))
}

func TestNewCompletionClient(t *testing.T) {
	t.Run("requires model and key", func(t *testing.T) {
		_, err := NewCompletionClient(Config{APIKey: "key"})
		assert.Error(t, err)

		_, err = NewCompletionClient(Config{Model: "gemini-1.5-flash"})
		assert.Error(t, err)

		_, err = NewCompletionClient(Config{Model: "litellm/", APIKey: "key"})
		assert.Error(t, err)
	})

	t.Run("selects provider from model name", func(t *testing.T) {
		client, err := NewCompletionClient(Config{Model: "claude-3-haiku", APIKey: "key"})
		require.NoError(t, err)
		assert.Equal(t, clients.ProviderAnthropic, client.Provider())

		client, err = NewCompletionClient(Config{Model: "gemini-1.5-pro", APIKey: "key"})
		require.NoError(t, err)
		assert.Equal(t, clients.ProviderGemini, client.Provider())
		assert.Equal(t, "gemini-1.5-pro", client.Model())

		client, err = NewCompletionClient(Config{Model: "litellm/gpt-4o", APIKey: "key"})
		require.NoError(t, err)
		assert.Equal(t, clients.ProviderLiteLLM, client.Provider())
		assert.Equal(t, "gpt-4o", client.Model())
	})
}

var testPrompt = []models.PromptMessage{
	{Role: models.PromptRoleSystem, Content: "S"},
	{Role: models.PromptRoleUser, Content: "hello"},
	{Role: models.PromptRoleAssistant, Content: "hi"},
	{Role: models.PromptRoleUser, Content: "how are you?"},
}

func TestOpenAICompatibleClient_Complete(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "I'm *fine*"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15}
		}`))
	}))
	defer server.Close()

	client := newOpenAICompatibleClient(clients.ProviderLiteLLM, "test-key", server.URL+"/", "gpt-4o")

	resp, err := client.Complete(context.Background(), clients.CompletionRequest{Messages: testPrompt, MaxTokens: 100})

	require.NoError(t, err)
	assert.Equal(t, "I'm *fine*", resp.Content)
	assert.Equal(t, 12, resp.PromptTokens)
	assert.Equal(t, 3, resp.CompletionTokens)

	assert.Equal(t, "gpt-4o", received["model"])
	messages, ok := received["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 4)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "assistant", messages[2].(map[string]any)["role"])
}

func TestOpenAICompatibleClient_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": "m", "choices": []}`))
	}))
	defer server.Close()

	client := newOpenAICompatibleClient(clients.ProviderGemini, "test-key", server.URL+"/", "gemini-1.5-flash")

	_, err := client.Complete(context.Background(), clients.CompletionRequest{Messages: testPrompt})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestOpenAICompatibleClient_ProviderErrorIsNotRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error": {"message": "overloaded", "type": "server_error"}}`))
	}))
	defer server.Close()

	client := newOpenAICompatibleClient(clients.ProviderLiteLLM, "test-key", server.URL+"/", "gpt-4o")

	_, err := client.Complete(context.Background(), clients.CompletionRequest{Messages: testPrompt})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestAnthropicClient_Complete(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-haiku",
			"content": [{"type": "text", "text": "Doing "}, {"type": "text", "text": "well"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 20, "output_tokens": 4}
		}`))
	}))
	defer server.Close()

	client := newAnthropicClient("test-key", "claude-3-haiku", option.WithBaseURL(server.URL+"/"))

	resp, err := client.Complete(context.Background(), clients.CompletionRequest{Messages: testPrompt})

	require.NoError(t, err)
	assert.Equal(t, "Doing well", resp.Content)
	assert.Equal(t, 20, resp.PromptTokens)
	assert.Equal(t, 4, resp.CompletionTokens)

	assert.Equal(t, float64(defaultAnthropicMaxTokens), received["max_tokens"])
	system, ok := received["system"].([]any)
	require.True(t, ok)
	assert.Equal(t, "S", system[0].(map[string]any)["text"])
	messages, ok := received["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, messages, 3)
	assert.Equal(t, "user", messages[0].(map[string]any)["role"])
}
