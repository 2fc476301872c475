package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/samber/mo"
)

type SlackConfig struct {
	BotToken        string
	SigningSecret   string
	AlertWebhookURL string
}

// CanVerifyRequests returns true if inbound requests can be signature-verified
func (c SlackConfig) CanVerifyRequests() bool {
	return c.SigningSecret != ""
}

type LLMConfig struct {
	Model             string
	APIKey            string
	LiteLLMBaseURL    string
	GeminiBaseURL     string
	SystemInstruction string
	MaxContextTokens  mo.Option[int]
	MaxOutputTokens   int
	Stream            bool
}

// IsConfigured returns true if a completion backend can be called
func (c LLMConfig) IsConfigured() bool {
	return c.Model != "" && c.APIKey != ""
}

type StorageConfig struct {
	DatabaseURL    string
	DatabaseSchema string
	RedisURL       string
}

type AssistantConfig struct {
	SuggestedPrompts []string
	KeywordReplies   map[string]string
}

type AppConfig struct {
	Port               string // Optional with default "3000"
	CORSAllowedOrigins string // Optional with default "*"
	Environment        string
	ServerLogsURL      string
	WorkerPoolSize     int

	SlackConfig     SlackConfig
	LLMConfig       LLMConfig
	StorageConfig   StorageConfig
	AssistantConfig AssistantConfig
}

// LoadConfig reads configuration from envFile (if present) and the process environment
func LoadConfig(envFile string) (*AppConfig, error) {
	if err := godotenv.Load(envFile); err != nil {
		log.Printf("⚠️ Could not load %s file, continuing with system env vars", envFile)
	}

	botToken, err := getEnvRequired("SLACK_BOT_TOKEN")
	if err != nil {
		return nil, fmt.Errorf("%w (xoxb-**** bot token is required)", err)
	}

	workerPoolSize, err := getEnvIntWithDefault("WORKER_POOL_SIZE", 8)
	if err != nil {
		return nil, err
	}
	if workerPoolSize < 1 {
		return nil, fmt.Errorf("WORKER_POOL_SIZE must be positive, got %d", workerPoolSize)
	}

	maxOutputTokens, err := getEnvIntWithDefault("LLM_MAX_OUTPUT_TOKENS", 4096)
	if err != nil {
		return nil, err
	}

	maxContextTokens := mo.None[int]()
	if raw := os.Getenv("LLM_MAX_CONTEXT_TOKENS"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			return nil, fmt.Errorf("LLM_MAX_CONTEXT_TOKENS must be a positive integer, got %q", raw)
		}
		maxContextTokens = mo.Some(value)
	}

	keywordReplies, err := ParseKeywordReplies(os.Getenv("KEYWORD_REPLIES"))
	if err != nil {
		return nil, err
	}

	config := &AppConfig{
		Port:               getEnvWithDefault("PORT", "3000"),
		CORSAllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		Environment:        getEnvWithDefault("ENVIRONMENT", "dev"),
		ServerLogsURL:      getEnvWithDefault("SERVER_LOGS_URL", ""),
		WorkerPoolSize:     workerPoolSize,

		SlackConfig: SlackConfig{
			BotToken:        botToken,
			SigningSecret:   os.Getenv("SLACK_SIGNING_SECRET"),
			AlertWebhookURL: os.Getenv("SLACK_ALERT_WEBHOOK_URL"),
		},

		LLMConfig: LLMConfig{
			Model:             os.Getenv("LLM_MODEL"),
			APIKey:            os.Getenv("LLM_API_KEY"),
			LiteLLMBaseURL:    os.Getenv("LITELLM_BASE_URL"),
			GeminiBaseURL:     os.Getenv("GEMINI_BASE_URL"),
			SystemInstruction: os.Getenv("SYSTEM_INSTRUCTION"),
			MaxContextTokens:  maxContextTokens,
			MaxOutputTokens:   maxOutputTokens,
			Stream:            getEnvWithDefault("LLM_STREAM", "false") == "true",
		},

		StorageConfig: StorageConfig{
			DatabaseURL:    os.Getenv("DB_URL"),
			DatabaseSchema: getEnvWithDefault("DB_SCHEMA", "public"),
			RedisURL:       os.Getenv("REDIS_URL"),
		},

		AssistantConfig: AssistantConfig{
			SuggestedPrompts: splitList(os.Getenv("SUGGESTED_PROMPTS")),
			KeywordReplies:   keywordReplies,
		},
	}

	if !config.SlackConfig.CanVerifyRequests() {
		log.Printf("⚠️ \"SLACK_SIGNING_SECRET\" environment variable is not set - inbound requests will not be verified")
	}

	if config.LLMConfig.IsConfigured() {
		log.Printf("✅ LLM integration configured (model: %s)", config.LLMConfig.Model)
	} else {
		log.Printf("⚠️ LLM integration not configured - AI replies will fall back to a static message")
	}

	switch {
	case config.StorageConfig.DatabaseURL != "":
		log.Printf("✅ Processed events will be stored in Postgres")
	case config.StorageConfig.RedisURL != "":
		log.Printf("✅ Processed events will be stored in Redis")
	default:
		log.Printf("⚠️ No DB_URL or REDIS_URL set - processed events are kept in memory")
	}

	return config, nil
}

// ParseKeywordReplies parses "keyword=reply;keyword=reply" into a map
func ParseKeywordReplies(raw string) (map[string]string, error) {
	replies := make(map[string]string)
	for _, pair := range strings.Split(raw, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		keyword, reply, ok := strings.Cut(pair, "=")
		keyword = strings.TrimSpace(keyword)
		reply = strings.TrimSpace(reply)
		if !ok || keyword == "" || reply == "" {
			return nil, fmt.Errorf("invalid KEYWORD_REPLIES entry %q, expected keyword=reply", pair)
		}
		replies[keyword] = reply
	}
	return replies, nil
}

func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ";") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return value, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}
	return value, nil
}
