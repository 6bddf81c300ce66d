package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/PrizeArena_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Tournament lifecycle event types
const (
	TournamentCreated  Type = "tournament.created"
	TournamentSettled  Type = "tournament.settled"
	ParticipantJoined  Type = "participant.joined"
	ParticipantNewBest Type = "participant.new_best"
	PayoutDispatched   Type = "payout.dispatched"
	PayoutDeadLettered Type = "payout.dead_lettered"
)

// AllTypes lists every event type the service publishes.
var AllTypes = []Type{
	TournamentCreated,
	TournamentSettled,
	ParticipantJoined,
	ParticipantNewBest,
	PayoutDispatched,
	PayoutDeadLettered,
}

// Typed event payloads for type safety

// TournamentCreatedPayloadV1 is published when a tournament is registered or renewed
type TournamentCreatedPayloadV1 struct {
	TournamentID string    `json:"tournament_id"`
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	PrizePool    string    `json:"prize_pool"`
	RenewedFrom  string    `json:"renewed_from,omitempty"`
}

// ParticipantJoinedPayloadV1 is published when a player enters a tournament
type ParticipantJoinedPayloadV1 struct {
	TournamentID string `json:"tournament_id"`
	PlayerID     string `json:"player_id"`
	EntryFee     string `json:"entry_fee"`
	AutoRenew    bool   `json:"auto_renew"`
	Timestamp    int64  `json:"timestamp"`
}

// ParticipantNewBestPayloadV1 is published when an attempt raises a personal best
type ParticipantNewBestPayloadV1 struct {
	TournamentID string `json:"tournament_id"`
	PlayerID     string `json:"player_id"`
	BestScore    int64  `json:"best_score"`
	Attempts     int    `json:"attempts"`
	Timestamp    int64  `json:"timestamp"`
}

// SettledReceiptV1 summarises one prize in a settlement event
type SettledReceiptV1 struct {
	ReceiptID string `json:"receipt_id"`
	PlayerID  string `json:"player_id"`
	Place     int    `json:"place"`
	Amount    string `json:"amount"`
}

// TournamentSettledPayloadV1 is published after a settlement transaction commits
type TournamentSettledPayloadV1 struct {
	TournamentID string             `json:"tournament_id"`
	Receipts     []SettledReceiptV1 `json:"receipts"`
	TotalPaid    string             `json:"total_paid"`
	RenewedAs    string             `json:"renewed_as,omitempty"`
	Timestamp    int64              `json:"timestamp"`
}

// PayoutPayloadV1 describes an outbox payout delivery result
type PayoutPayloadV1 struct {
	PayoutID     string `json:"payout_id"`
	ReceiptID    string `json:"receipt_id"`
	TournamentID string `json:"tournament_id"`
	PlayerID     string `json:"player_id"`
	Amount       string `json:"amount"`
	Attempts     int    `json:"attempts"`
	ExternalRef  string `json:"external_ref,omitempty"`
	LastError    string `json:"last_error,omitempty"`
}

// Type-safe event constructors

// NewTournamentCreatedEvent creates a tournament created event
func NewTournamentCreatedEvent(t *domain.Tournament) Event {
	payload := TournamentCreatedPayloadV1{
		TournamentID: t.ID.String(),
		Name:         t.Name,
		Status:       string(t.Status),
		StartTime:    t.StartTime,
		EndTime:      t.EndTime,
		PrizePool:    t.PrizePool.StringFixed(domain.MoneyScale),
	}
	if t.RenewedFrom != nil {
		payload.RenewedFrom = t.RenewedFrom.String()
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    TournamentCreated,
		Payload: payload,
	}
}

// NewParticipantJoinedEvent creates a participant joined event
func NewParticipantJoinedEvent(t *domain.Tournament, p *domain.Participant) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ParticipantJoined,
		Payload: ParticipantJoinedPayloadV1{
			TournamentID: t.ID.String(),
			PlayerID:     p.PlayerID,
			EntryFee:     t.EntryFee.StringFixed(domain.MoneyScale),
			AutoRenew:    p.AutoRenew,
			Timestamp:    p.JoinedAt.Unix(),
		},
	}
}

// NewParticipantNewBestEvent creates a new personal best event
func NewParticipantNewBestEvent(p *domain.Participant) Event {
	ts := p.JoinedAt
	if p.LastAttemptAt != nil {
		ts = *p.LastAttemptAt
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    ParticipantNewBest,
		Payload: ParticipantNewBestPayloadV1{
			TournamentID: p.TournamentID.String(),
			PlayerID:     p.PlayerID,
			BestScore:    p.BestScore,
			Attempts:     p.Attempts,
			Timestamp:    ts.Unix(),
		},
	}
}

// NewTournamentSettledEvent creates a settlement event from a committed outcome
func NewTournamentSettledEvent(outcome domain.SettlementOutcome, receipts []domain.PrizeReceipt, at time.Time) Event {
	settled := make([]SettledReceiptV1, 0, len(receipts))
	for _, r := range receipts {
		settled = append(settled, SettledReceiptV1{
			ReceiptID: r.ID.String(),
			PlayerID:  r.PlayerID,
			Place:     r.Place,
			Amount:    r.Amount.StringFixed(domain.MoneyScale),
		})
	}

	payload := TournamentSettledPayloadV1{
		TournamentID: outcome.TournamentID.String(),
		Receipts:     settled,
		TotalPaid:    outcome.TotalPaid.StringFixed(domain.MoneyScale),
		Timestamp:    at.Unix(),
	}
	if outcome.RenewedAs != nil {
		payload.RenewedAs = outcome.RenewedAs.String()
	}

	return Event{
		Version: EventSchemaVersion,
		Type:    TournamentSettled,
		Payload: payload,
	}
}

// NewPayoutEvent creates a payout dispatched or dead-lettered event
func NewPayoutEvent(eventType Type, p *domain.PayoutEvent) Event {
	payload := PayoutPayloadV1{
		PayoutID:     p.ID.String(),
		ReceiptID:    p.ReceiptID.String(),
		TournamentID: p.TournamentID.String(),
		PlayerID:     p.PlayerID,
		Amount:       p.Amount.StringFixed(domain.MoneyScale),
		Attempts:     p.Attempts,
	}
	if p.ExternalRef != nil {
		payload.ExternalRef = *p.ExternalRef
	}
	if p.LastError != nil {
		payload.LastError = *p.LastError
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    eventType,
		Payload: payload,
		Metadata: map[string]interface{}{
			"receipt_id": payload.ReceiptID,
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers. Handlers run synchronously.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
