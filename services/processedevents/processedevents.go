package processedevents

import (
	"context"
	"fmt"
	"log"
	"time"

	"slackassistant/core"
	"slackassistant/models"
)

// DefaultTTL covers Slack's retry window with a wide margin
const DefaultTTL = 24 * time.Hour

// Repository is implemented by the postgres, redis and in-memory stores in db
type Repository interface {
	InsertIfAbsent(ctx context.Context, event *models.ProcessedSlackEvent) (bool, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type ProcessedEventsService struct {
	repo Repository
	ttl  time.Duration
	now  func() time.Time
}

func NewProcessedEventsService(repo Repository, ttl time.Duration) *ProcessedEventsService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ProcessedEventsService{
		repo: repo,
		ttl:  ttl,
		now:  time.Now,
	}
}

// MarkProcessed records eventID and returns true only the first time it is seen.
// Events without an id cannot be de-duplicated and always count as new.
func (s *ProcessedEventsService) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return true, nil
	}

	event := &models.ProcessedSlackEvent{
		ID:        core.NewID("pev"),
		EventID:   eventID,
		CreatedAt: s.now().UTC(),
	}
	firstTime, err := s.repo.InsertIfAbsent(ctx, event)
	if err != nil {
		return false, fmt.Errorf("failed to mark slack event %s as processed: %w", eventID, err)
	}

	if !firstTime {
		log.Printf("⚠️ Slack event %s was already processed, skipping redelivery", eventID)
	}
	return firstTime, nil
}

// CleanupExpired forgets events older than the configured TTL
func (s *ProcessedEventsService) CleanupExpired(ctx context.Context) error {
	log.Printf("📋 Starting to clean up expired processed slack events")
	deleted, err := s.repo.DeleteOlderThan(ctx, s.now().UTC().Add(-s.ttl))
	if err != nil {
		return fmt.Errorf("failed to clean up processed slack events: %w", err)
	}

	log.Printf("📋 Completed successfully - removed %d expired processed slack events", deleted)
	return nil
}
