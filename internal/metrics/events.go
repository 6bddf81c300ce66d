package metrics

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/osse101/PrizeArena_Go/internal/event"
	"github.com/osse101/PrizeArena_Go/internal/logger"
)

type eventRecorder func(evt event.Event) error

// EventMetricsCollector turns published lifecycle events into counters.
type EventMetricsCollector struct {
	recorders map[event.Type]eventRecorder
}

func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{
		recorders: map[event.Type]eventRecorder{
			event.TournamentCreated: recordTournamentCreated,
			event.TournamentSettled: recordTournamentSettled,
			event.ParticipantJoined: func(event.Event) error {
				ParticipantsJoined.Inc()
				return nil
			},
		},
	}
}

// Register subscribes the collector to every published type.
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	for _, eventType := range event.AllTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}
	return nil
}

// HandleEvent never returns an error: a payload that cannot be decoded is
// counted and skipped so metrics never trigger publisher retries.
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	record, ok := e.recorders[evt.Type]
	if !ok {
		return nil
	}
	if err := record(evt); err != nil {
		EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		logger.FromContext(ctx).Debug(LogMsgEventPayloadDecodeFailed, "type", evt.Type, "error", err)
	}
	return nil
}

func recordTournamentCreated(evt event.Event) error {
	payload, err := event.Decode[event.TournamentCreatedPayloadV1](evt)
	if err != nil {
		return err
	}
	TournamentsCreated.Inc()
	if payload.RenewedFrom != "" {
		TournamentsRenewed.Inc()
	}
	return nil
}

func recordTournamentSettled(evt event.Event) error {
	payload, err := event.Decode[event.TournamentSettledPayloadV1](evt)
	if err != nil {
		return err
	}
	PrizesPaid.Add(float64(len(payload.Receipts)))
	total, err := decimal.NewFromString(payload.TotalPaid)
	if err != nil {
		return err
	}
	PrizeAmountPaid.Add(total.InexactFloat64())
	return nil
}
