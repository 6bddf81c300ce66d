package eventlog

import (
	"context"
	"time"

	"github.com/osse101/PrizeArena_Go/internal/event"
	"github.com/osse101/PrizeArena_Go/internal/logger"
)

// Service records bus traffic into the audit log and answers history queries.
type Service interface {
	// Subscribe attaches the recorder to every published event type
	Subscribe(bus event.Bus) error

	// History returns logged events for one tournament, newest first
	History(ctx context.Context, tournamentID string, limit int) ([]Entry, error)

	// Purge drops entries older than retention
	Purge(ctx context.Context, retention time.Duration) (int64, error)
}

type service struct {
	repo  Repository
	clock func() time.Time
}

// NewService creates the audit log service. clock stamps recorded events.
func NewService(repo Repository, clock func() time.Time) Service {
	if clock == nil {
		clock = time.Now
	}
	return &service{repo: repo, clock: clock}
}

func (s *service) Subscribe(bus event.Bus) error {
	for _, eventType := range event.AllTypes {
		bus.Subscribe(eventType, s.record)
	}
	return nil
}

// record flattens the typed payload to a map and appends it
func (s *service) record(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	payload, err := event.Decode[map[string]interface{}](evt)
	if err != nil || payload == nil {
		log.Debug(LogMsgEventPayloadNotMap, LogFieldType, evt.Type, LogFieldError, err)
		return nil
	}

	rec := Record{
		EventType:  string(evt.Type),
		Payload:    payload,
		OccurredAt: s.clock().UTC(),
	}
	if tid, ok := payload[PayloadKeyTournamentID].(string); ok && tid != "" {
		rec.TournamentID = &tid
	}
	if m, ok := evt.Metadata.(map[string]interface{}); ok {
		rec.Metadata = m
	}

	if err := s.repo.Append(ctx, rec); err != nil {
		log.Error(LogMsgFailedToLogEvent, LogFieldError, err, LogFieldType, evt.Type)
		return err
	}

	log.Debug(LogMsgEventLogged, LogFieldType, evt.Type, LogFieldTournamentID, rec.TournamentID)
	return nil
}

func (s *service) History(ctx context.Context, tournamentID string, limit int) ([]Entry, error) {
	return s.repo.Query(ctx, Filter{TournamentID: &tournamentID, Limit: limit})
}

func (s *service) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}
	return s.repo.PurgeBefore(ctx, s.clock().Add(-retention))
}
