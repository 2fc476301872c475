package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"slackassistant/models"
)

type PostgresProcessedEventsRepository struct {
	db     *sqlx.DB
	schema string
}

func NewPostgresProcessedEventsRepository(db *sqlx.DB, schema string) *PostgresProcessedEventsRepository {
	return &PostgresProcessedEventsRepository{db: db, schema: schema}
}

// EnsureSchema creates the processed events table when it does not exist yet
func (r *PostgresProcessedEventsRepository) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.processed_slack_events (
			id TEXT PRIMARY KEY,
			event_id TEXT NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, r.schema)

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create processed slack events table: %w", err)
	}

	return nil
}

// InsertIfAbsent stores the event and reports whether it was not seen before
func (r *PostgresProcessedEventsRepository) InsertIfAbsent(ctx context.Context, event *models.ProcessedSlackEvent) (bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s.processed_slack_events (id, event_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id) DO NOTHING`, r.schema)

	result, err := r.db.ExecContext(ctx, query, event.ID, event.EventID, event.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert processed slack event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *PostgresProcessedEventsRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s.processed_slack_events
		WHERE created_at < $1`, r.schema)

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired processed slack events: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// TESTS_GetByEventID loads a stored event for assertions in integration tests
func (r *PostgresProcessedEventsRepository) TESTS_GetByEventID(ctx context.Context, eventID string) (*models.ProcessedSlackEvent, error) {
	query := fmt.Sprintf(`
		SELECT id, event_id, created_at
		FROM %s.processed_slack_events
		WHERE event_id = $1`, r.schema)

	event := &models.ProcessedSlackEvent{}
	if err := r.db.GetContext(ctx, event, query, eventID); err != nil {
		return nil, fmt.Errorf("failed to get processed slack event: %w", err)
	}

	return event, nil
}
