package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/gorilla/mux"
	"github.com/jessevdk/go-flags"
	"github.com/rs/cors"
	"github.com/samber/mo"

	"slackassistant/clients"
	"slackassistant/clients/llm"
	slackclient "slackassistant/clients/slack"
	"slackassistant/config"
	"slackassistant/core"
	"slackassistant/db"
	"slackassistant/handlers"
	"slackassistant/middleware"
	"slackassistant/services/completion"
	"slackassistant/services/processedevents"
	"slackassistant/usecases/assistant"
)

// eventTimeout bounds one handler run: thread fetch, completion call and reply
const eventTimeout = 2 * time.Minute

const cleanupInterval = 1 * time.Hour

type Options struct {
	EnvFile string `long:"env-file" default:".env" description:"Path to a .env file to load before reading the environment"`
	Port    string `long:"port" description:"Port to listen on (overrides PORT)"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run(opts Options) error {
	cfg, err := config.LoadConfig(opts.EnvFile)
	if err != nil {
		return err
	}
	if opts.Port != "" {
		cfg.Port = opts.Port
	}

	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.SlackAlertConfig{
		WebhookURL:  cfg.SlackConfig.AlertWebhookURL,
		Environment: cfg.Environment,
		AppName:     "slackassistant",
		LogsURL:     cfg.ServerLogsURL,
	})

	slackClient := slackclient.NewSlackClient(cfg.SlackConfig.BotToken)
	authCtx, cancelAuth := context.WithTimeout(context.Background(), 10*time.Second)
	auth, err := slackClient.AuthTest(authCtx)
	cancelAuth()
	if err != nil {
		log.Printf("⚠️ Slack auth.test failed, outbound Slack calls will likely fail: %v", err)
	} else {
		log.Printf("✅ Authenticated to Slack as bot %s (user: %s, team: %s)", auth.BotID, auth.UserID, auth.TeamID)
	}

	tokenCounter := core.NewTokenCounter()
	completionService, err := newCompletionService(cfg.LLMConfig, tokenCounter)
	if err != nil {
		return err
	}

	repo, closeStore, err := newProcessedEventsRepository(cfg.StorageConfig)
	if err != nil {
		return err
	}
	defer closeStore()
	processedEventsService := processedevents.NewProcessedEventsService(repo, processedevents.DefaultTTL)

	assistantUseCase := assistant.NewAssistantUseCase(
		slackClient,
		completionService,
		cfg.AssistantConfig.KeywordReplies,
		cfg.AssistantConfig.SuggestedPrompts,
	)
	registry := assistant.NewRegistry(assistantUseCase)

	pool := workerpool.New(cfg.WorkerPoolSize)
	defer pool.StopWait()
	log.Printf("✅ Worker pool started with %d workers", cfg.WorkerPoolSize)

	router := mux.NewRouter()
	handlers.NewSlackEventsHandler(
		cfg.SlackConfig.SigningSecret,
		registry,
		processedEventsService,
		pool,
		alertMiddleware,
		eventTimeout,
	).SetupEndpoints(router)
	handlers.NewSlackInteractionsHandler(
		cfg.SlackConfig.SigningSecret,
		registry,
		pool,
		alertMiddleware,
		eventTimeout,
	).SetupEndpoints(router)
	handlers.SetupHealthEndpoint(router)

	// Periodically forget old Slack event ids and stale token counts
	stopCleanup := startCleanupLoop(cleanupInterval, func() {
		_ = alertMiddleware.WrapBackgroundTask("CleanupProcessedEvents", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			return processedEventsService.CleanupExpired(ctx)
		})()
		if removed := tokenCounter.PurgeExpired(); removed > 0 {
			log.Printf("🧹 Purged %d expired token count cache entries", removed)
		}
	})
	defer stopCleanup()

	// Setup CORS middleware
	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Slack-Signature", "X-Slack-Request-Timestamp"},
	})

	// Setup and handle graceful shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           alertMiddleware.HTTPMiddleware(c.Handler(router)),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server)
}

// newCompletionService builds the completion pipeline; without a model or key it stays
// unconfigured and every AI turn gets the static fallback reply
func newCompletionService(cfg config.LLMConfig, tokenCounter *core.TokenCounter) (*completion.CompletionServiceImpl, error) {
	if !cfg.IsConfigured() {
		return completion.NewCompletionService(mo.None[clients.CompletionClient](), tokenCounter, completion.Config{}), nil
	}

	client, err := llm.NewCompletionClient(llm.Config{
		Model:          cfg.Model,
		APIKey:         cfg.APIKey,
		LiteLLMBaseURL: cfg.LiteLLMBaseURL,
		GeminiBaseURL:  cfg.GeminiBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create completion client: %w", err)
	}

	budget := cfg.MaxContextTokens.OrElse(llm.DefaultContextBudget(client.Provider()))
	log.Printf("✅ Completion provider %s ready (model: %s, context budget: %d tokens, streaming: %t)",
		client.Provider(), client.Model(), budget, cfg.Stream)

	return completion.NewCompletionService(mo.Some(client), tokenCounter, completion.Config{
		SystemInstruction: cfg.SystemInstruction,
		ContextBudget:     budget,
		MaxOutputTokens:   cfg.MaxOutputTokens,
		Stream:            cfg.Stream,
	}), nil
}

// newProcessedEventsRepository picks Postgres, then Redis, then the in-memory store
func newProcessedEventsRepository(cfg config.StorageConfig) (processedevents.Repository, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch {
	case cfg.DatabaseURL != "":
		dbConn, err := db.NewConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		repo := db.NewPostgresProcessedEventsRepository(dbConn, cfg.DatabaseSchema)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = dbConn.Close()
			return nil, nil, err
		}
		return repo, func() { _ = dbConn.Close() }, nil

	case cfg.RedisURL != "":
		redisClient, err := db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return db.NewRedisProcessedEventsRepository(redisClient, processedevents.DefaultTTL), func() { _ = redisClient.Close() }, nil

	default:
		return db.NewInMemoryProcessedEventsRepository(), func() {}, nil
	}
}

func handleGracefulShutdown(server *http.Server) error {
	// Channel to listen for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-stop
	log.Printf("🛑 Shutdown signal received, cleaning up...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
		return err
	}

	log.Printf("✅ Server stopped gracefully, waiting for in-flight events")
	return nil
}
