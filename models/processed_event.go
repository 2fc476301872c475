package models

import "time"

// ProcessedSlackEvent records a Slack event_id that was already dispatched
type ProcessedSlackEvent struct {
	ID        string    `json:"id" db:"id"`
	EventID   string    `json:"event_id" db:"event_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
