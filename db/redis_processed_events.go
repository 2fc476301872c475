package db

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"slackassistant/models"
)

const redisProcessedEventKeyPrefix = "slackassistant:processed_event:"

// RedisProcessedEventsRepository keeps one key per event id and lets redis expire it
type RedisProcessedEventsRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisProcessedEventsRepository(client *redis.Client, ttl time.Duration) *RedisProcessedEventsRepository {
	return &RedisProcessedEventsRepository{client: client, ttl: ttl}
}

func redisProcessedEventKey(eventID string) string {
	return redisProcessedEventKeyPrefix + eventID
}

func (r *RedisProcessedEventsRepository) InsertIfAbsent(ctx context.Context, event *models.ProcessedSlackEvent) (bool, error) {
	stored, err := r.client.SetNX(ctx, redisProcessedEventKey(event.EventID), event.ID, r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to store processed slack event in redis: %w", err)
	}

	return stored, nil
}

// DeleteOlderThan is a no-op, keys carry their own expiry
func (r *RedisProcessedEventsRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}
