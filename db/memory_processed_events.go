package db

import (
	"context"
	"sync"
	"time"

	"slackassistant/models"
)

// InMemoryProcessedEventsRepository is the fallback store when no database or redis is configured.
// Its contents do not survive a restart.
type InMemoryProcessedEventsRepository struct {
	mu     sync.Mutex
	events map[string]time.Time
}

func NewInMemoryProcessedEventsRepository() *InMemoryProcessedEventsRepository {
	return &InMemoryProcessedEventsRepository{events: make(map[string]time.Time)}
}

func (r *InMemoryProcessedEventsRepository) InsertIfAbsent(ctx context.Context, event *models.ProcessedSlackEvent) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.events[event.EventID]; exists {
		return false, nil
	}
	r.events[event.EventID] = event.CreatedAt
	return true, nil
}

func (r *InMemoryProcessedEventsRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for eventID, createdAt := range r.events {
		if createdAt.Before(cutoff) {
			delete(r.events, eventID)
			deleted++
		}
	}
	return deleted, nil
}

// Len returns the number of tracked events
func (r *InMemoryProcessedEventsRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}
