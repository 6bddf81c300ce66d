package eventlog

import (
	"context"
	"time"
)

// Entry is one stored bus event.
type Entry struct {
	ID           int64                  `json:"id"`
	EventType    string                 `json:"event_type"`
	TournamentID *string                `json:"tournament_id,omitempty"`
	Payload      map[string]interface{} `json:"payload"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

// Record is an event about to be appended. A zero OccurredAt is stored as
// the database's current time.
type Record struct {
	EventType    string
	TournamentID *string
	Payload      map[string]interface{}
	Metadata     map[string]interface{}
	OccurredAt   time.Time
}

// Filter narrows a Query. Nil fields match everything.
type Filter struct {
	TournamentID *string
	EventType    *string
	Since        *time.Time
	Until        *time.Time
	Limit        int
}

// Repository stores the append-only audit trail of bus events.
type Repository interface {
	Append(ctx context.Context, rec Record) error

	// Query returns matching entries, newest first
	Query(ctx context.Context, filter Filter) ([]Entry, error)

	// PurgeBefore deletes entries created before cutoff and reports how many went
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
