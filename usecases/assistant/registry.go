package assistant

import (
	"context"
	"fmt"
	"log"

	"slackassistant/models"
)

// Handler processes one normalized assistant event
type Handler func(ctx context.Context, event models.AssistantEvent, utils AssistantUtilities) error

// Registry maps every event kind the bot reacts to onto its handler.
// It is built once at startup and only read afterwards.
type Registry struct {
	useCase  *AssistantUseCase
	handlers map[models.EventKind]Handler
}

func NewRegistry(useCase *AssistantUseCase) *Registry {
	r := &Registry{
		useCase:  useCase,
		handlers: make(map[models.EventKind]Handler),
	}

	r.Register(models.EventKindThreadStarted, useCase.HandleThreadStarted)
	r.Register(models.EventKindThreadContextChanged, useCase.HandleThreadContextChanged)
	r.Register(models.EventKindUserMessage, useCase.HandleUserMessage)
	r.Register(models.EventKindBotMessage, useCase.HandleBotMessage)
	r.Register(models.EventKindAppMention, useCase.HandleAppMention)
	r.Register(models.EventKindChannelMessage, noop)
	r.Register(models.EventKindBlockAction, useCase.HandleBlockAction)
	r.Register(models.EventKindViewSubmission, useCase.HandleViewSubmission)

	return r
}

// Register binds a handler to an event kind, replacing any previous one
func (r *Registry) Register(kind models.EventKind, handler Handler) {
	r.handlers[kind] = handler
}

func (r *Registry) Handler(kind models.EventKind) (Handler, bool) {
	handler, ok := r.handlers[kind]
	return handler, ok
}

// Dispatch runs the handler registered for the event. A failing handler is logged and the
// user gets a generic notice in the thread; the error is still returned for alerting.
func (r *Registry) Dispatch(ctx context.Context, event models.AssistantEvent) error {
	handler, ok := r.Handler(event.Kind)
	if !ok {
		log.Printf("⚠️ No handler registered for %s event %s, ignoring", event.Kind, event.ID)
		return nil
	}

	log.Printf("📋 Starting to handle %s event %s (channel: %s, thread: %s)", event.Kind, event.ID, event.ChannelID, event.ThreadTS)
	utils := r.useCase.NewUtilities(event.ChannelID, event.ThreadTS)
	if err := handler(ctx, event, utils); err != nil {
		log.Printf("❌ Failed to handle %s event %s: %v", event.Kind, event.ID, err)
		if event.ChannelID != "" {
			if sayErr := utils.Say(ctx, Text(ErrorNotice)); sayErr != nil {
				log.Printf("❌ Failed to send error notice for event %s: %v", event.ID, sayErr)
			}
		}
		return fmt.Errorf("failed to handle %s event: %w", event.Kind, err)
	}

	log.Printf("📋 Completed successfully - handled %s event %s", event.Kind, event.ID)
	return nil
}

func noop(ctx context.Context, event models.AssistantEvent, utils AssistantUtilities) error {
	return nil
}
