package llm

import (
	"fmt"
	"strings"

	"slackassistant/clients"
)

const (
	DefaultGeminiBaseURL  = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultLiteLLMBaseURL = "http://localhost:4000"
)

// Context window budgets used for prompt trimming when LLM_MAX_CONTEXT_TOKENS is unset
var defaultContextBudgets = map[clients.Provider]int{
	clients.ProviderGemini:    1_000_000,
	clients.ProviderAnthropic: 200_000,
	clients.ProviderLiteLLM:   8_192,
}

type Config struct {
	Model          string
	APIKey         string
	LiteLLMBaseURL string
	GeminiBaseURL  string
}

// ResolveModel maps a configured model name to its provider and the model id sent to that provider
func ResolveModel(name string) (clients.Provider, string) {
	name = strings.TrimSpace(name)
	lower := strings.ToLower(name)

	switch {
	case strings.HasPrefix(lower, "gemini/"):
		return clients.ProviderGemini, name[len("gemini/"):]
	case strings.HasPrefix(lower, "gemini"):
		return clients.ProviderGemini, name
	case strings.HasPrefix(lower, "anthropic/"):
		return clients.ProviderAnthropic, name[len("anthropic/"):]
	case strings.HasPrefix(lower, "claude"):
		return clients.ProviderAnthropic, name
	case strings.HasPrefix(lower, "litellm/"):
		return clients.ProviderLiteLLM, name[len("litellm/"):]
	default:
		return clients.ProviderLiteLLM, name
	}
}

// DefaultContextBudget returns the trimming budget in tokens for a provider
func DefaultContextBudget(provider clients.Provider) int {
	if budget, ok := defaultContextBudgets[provider]; ok {
		return budget
	}
	return defaultContextBudgets[clients.ProviderLiteLLM]
}

// NewCompletionClient creates the completion backend selected by the model name
func NewCompletionClient(cfg Config) (clients.CompletionClient, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	provider, model := ResolveModel(cfg.Model)
	if model == "" {
		return nil, fmt.Errorf("invalid model name %q", cfg.Model)
	}

	switch provider {
	case clients.ProviderAnthropic:
		return newAnthropicClient(cfg.APIKey, model), nil
	case clients.ProviderGemini:
		baseURL := cfg.GeminiBaseURL
		if baseURL == "" {
			baseURL = DefaultGeminiBaseURL
		}
		return newOpenAICompatibleClient(provider, cfg.APIKey, baseURL, model), nil
	default:
		baseURL := cfg.LiteLLMBaseURL
		if baseURL == "" {
			baseURL = DefaultLiteLLMBaseURL
		}
		return newOpenAICompatibleClient(provider, cfg.APIKey, baseURL, model), nil
	}
}
