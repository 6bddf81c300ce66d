package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/PrizeArena_Go/internal/eventlog"
)

// EventLogRepository implements eventlog.Repository on the events table
type EventLogRepository struct {
	db *pgxpool.Pool
}

var _ eventlog.Repository = (*EventLogRepository)(nil)

// NewEventLogRepository creates a new PostgreSQL event log repository
func NewEventLogRepository(db *pgxpool.Pool) *EventLogRepository {
	return &EventLogRepository{db: db}
}

func (r *EventLogRepository) Append(ctx context.Context, rec eventlog.Record) error {
	payload := rec.Payload
	if payload == nil {
		payload = map[string]interface{}{}
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMarshalPayload, err)
	}

	var metadataJSON []byte
	if rec.Metadata != nil {
		if metadataJSON, err = json.Marshal(rec.Metadata); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToMarshalPayload, err)
		}
	}

	var occurredAt *time.Time
	if !rec.OccurredAt.IsZero() {
		occurredAt = &rec.OccurredAt
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO events (event_type, tournament_id, payload, metadata, created_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, NOW()))`,
		rec.EventType, rec.TournamentID, payloadJSON, metadataJSON, occurredAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertEvent, err)
	}
	return nil
}

func (r *EventLogRepository) Query(ctx context.Context, filter eventlog.Filter) ([]eventlog.Entry, error) {
	var (
		where []string
		args  []interface{}
	)
	cond := func(clause string, v interface{}) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filter.TournamentID != nil {
		cond("tournament_id = $%d", *filter.TournamentID)
	}
	if filter.EventType != nil {
		cond("event_type = $%d", *filter.EventType)
	}
	if filter.Since != nil {
		cond("created_at >= $%d", *filter.Since)
	}
	if filter.Until != nil {
		cond("created_at <= $%d", *filter.Until)
	}

	sql := `SELECT id, event_type, tournament_id, payload, metadata, created_at FROM events`
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, clampLimit(filter.Limit))
	sql += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", len(args))

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryEvents, err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *EventLogRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToCleanupEvents, err)
	}
	return tag.RowsAffected(), nil
}

func scanEntries(rows pgx.Rows) ([]eventlog.Entry, error) {
	entries := []eventlog.Entry{}
	for rows.Next() {
		var (
			e                         eventlog.Entry
			payloadJSON, metadataJSON []byte
		)
		if err := rows.Scan(&e.ID, &e.EventType, &e.TournamentID, &payloadJSON, &metadataJSON, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryEvents, err)
		}
		if err := json.Unmarshal(payloadJSON, &e.Payload); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryEvents, err)
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &e.Metadata); err != nil {
				return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryEvents, err)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
