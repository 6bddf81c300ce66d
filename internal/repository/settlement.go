package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/osse101/PrizeArena_Go/internal/domain"
)

// Settlement defines the storage used to finalize tournaments.
type Settlement interface {
	BeginSettlementTx(ctx context.Context) (SettlementTx, error)
}

// SettlementTx scopes the settlement of exactly one tournament.
type SettlementTx interface {
	Tx
	WalletTx

	// LockTournament re-reads the tournament under a row lock. Returns nil, nil when absent.
	LockTournament(ctx context.Context, id uuid.UUID) (*domain.Tournament, error)

	// GetTopParticipants returns at most n participants ordered by
	// best_score DESC, joined_at ASC, player_id ASC.
	GetTopParticipants(ctx context.Context, id uuid.UUID, n int) ([]domain.Participant, error)

	// InsertPrizeReceipt fails with domain.ErrDuplicateReceipt when the
	// (tournament, player, place) already has a receipt.
	InsertPrizeReceipt(ctx context.Context, r *domain.PrizeReceipt) error
	InsertPayoutEvent(ctx context.Context, e *domain.PayoutEvent) error

	// MarkFinished flips the status to finished only if it is still upcoming
	// or active, and reports whether this call made the transition.
	MarkFinished(ctx context.Context, id uuid.UUID) (bool, error)

	// Renewal
	CreateTournament(ctx context.Context, t *domain.Tournament) error
	GetAutoRenewParticipants(ctx context.Context, id uuid.UUID) ([]domain.Participant, error)
	InsertParticipant(ctx context.Context, p *domain.Participant) error
	AddParticipant(ctx context.Context, tournamentID uuid.UUID, poolIncrease decimal.Decimal) error
}
