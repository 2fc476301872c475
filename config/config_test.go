package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"SLACK_BOT_TOKEN", "SLACK_SIGNING_SECRET", "SLACK_ALERT_WEBHOOK_URL", "PORT",
		"LLM_MODEL", "LLM_API_KEY", "LITELLM_BASE_URL", "GEMINI_BASE_URL", "SYSTEM_INSTRUCTION",
		"LLM_MAX_CONTEXT_TOKENS", "LLM_MAX_OUTPUT_TOKENS", "LLM_STREAM", "WORKER_POOL_SIZE",
		"DB_URL", "DB_SCHEMA", "REDIS_URL", "SUGGESTED_PROMPTS", "KEYWORD_REPLIES",
		"ENVIRONMENT", "SERVER_LOGS_URL", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing bot token is fatal", func(t *testing.T) {
		clearEnv(t)

		cfg, err := LoadConfig("testdata/does-not-exist.env")

		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "SLACK_BOT_TOKEN is not set")
	})

	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")

		cfg, err := LoadConfig("testdata/does-not-exist.env")

		require.NoError(t, err)
		assert.Equal(t, "3000", cfg.Port)
		assert.Equal(t, "*", cfg.CORSAllowedOrigins)
		assert.Equal(t, "dev", cfg.Environment)
		assert.Equal(t, 8, cfg.WorkerPoolSize)
		assert.Equal(t, "public", cfg.StorageConfig.DatabaseSchema)
		assert.False(t, cfg.SlackConfig.CanVerifyRequests())
		assert.False(t, cfg.LLMConfig.IsConfigured())
		assert.True(t, cfg.LLMConfig.MaxContextTokens.IsAbsent())
		assert.False(t, cfg.LLMConfig.Stream)
		assert.Empty(t, cfg.AssistantConfig.SuggestedPrompts)
		assert.Empty(t, cfg.AssistantConfig.KeywordReplies)
	})

	t.Run("full configuration", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")
		t.Setenv("SLACK_SIGNING_SECRET", "secret")
		t.Setenv("PORT", "8080")
		t.Setenv("LLM_MODEL", "gemini-1.5-flash")
		t.Setenv("LLM_API_KEY", "key")
		t.Setenv("LLM_MAX_CONTEXT_TOKENS", "32000")
		t.Setenv("LLM_STREAM", "true")
		t.Setenv("WORKER_POOL_SIZE", "2")
		t.Setenv("SUGGESTED_PROMPTS", "Summarize this; Translate to English ;")
		t.Setenv("KEYWORD_REPLIES", "hello=Hi there!;ping=pong")

		cfg, err := LoadConfig("testdata/does-not-exist.env")

		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Port)
		assert.True(t, cfg.SlackConfig.CanVerifyRequests())
		assert.True(t, cfg.LLMConfig.IsConfigured())
		assert.Equal(t, 32000, cfg.LLMConfig.MaxContextTokens.MustGet())
		assert.True(t, cfg.LLMConfig.Stream)
		assert.Equal(t, 2, cfg.WorkerPoolSize)
		assert.Equal(t, []string{"Summarize this", "Translate to English"}, cfg.AssistantConfig.SuggestedPrompts)
		assert.Equal(t, map[string]string{"hello": "Hi there!", "ping": "pong"}, cfg.AssistantConfig.KeywordReplies)
	})

	t.Run("invalid numbers are rejected", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")
		t.Setenv("LLM_MAX_CONTEXT_TOKENS", "-5")

		_, err := LoadConfig("testdata/does-not-exist.env")
		require.Error(t, err)

		t.Setenv("LLM_MAX_CONTEXT_TOKENS", "")
		t.Setenv("WORKER_POOL_SIZE", "zero")

		_, err = LoadConfig("testdata/does-not-exist.env")
		require.Error(t, err)
	})
}

func TestParseKeywordReplies(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		expected  map[string]string
		expectErr bool
	}{
		{name: "empty", raw: "", expected: map[string]string{}},
		{name: "single", raw: "hello=Hi!", expected: map[string]string{"hello": "Hi!"}},
		{name: "reply containing equals", raw: "math=1+1=2", expected: map[string]string{"math": "1+1=2"}},
		{name: "whitespace trimmed", raw: " hello = Hi! ; ", expected: map[string]string{"hello": "Hi!"}},
		{name: "missing reply", raw: "hello=", expectErr: true},
		{name: "missing separator", raw: "hello", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			replies, err := ParseKeywordReplies(tt.raw)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, replies)
		})
	}
}
