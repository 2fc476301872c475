package services

import (
	"context"

	"slackassistant/models"
)

// CompletionService turns a Slack thread into a model reply
type CompletionService interface {
	IsConfigured() bool
	GenerateReply(ctx context.Context, history []models.ThreadMessage) (string, error)
}

// ProcessedEventsService de-duplicates Slack event deliveries
type ProcessedEventsService interface {
	MarkProcessed(ctx context.Context, eventID string) (bool, error)
	CleanupExpired(ctx context.Context) error
}
