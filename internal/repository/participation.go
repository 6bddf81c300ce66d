package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/osse101/PrizeArena_Go/internal/domain"
)

// Participation defines the storage used to record attempts.
type Participation interface {
	BeginParticipationTx(ctx context.Context) (ParticipationTx, error)
}

// ParticipationTx is a transaction holding row locks on one tournament and one
// participant. The tournament row is always locked before the participant row.
type ParticipationTx interface {
	Tx
	WalletTx

	// GetTournamentForUpdate locks the tournament row. Returns nil, nil when absent.
	GetTournamentForUpdate(ctx context.Context, id uuid.UUID) (*domain.Tournament, error)

	// GetTournamentForShare takes a shared lock: attempts by existing players
	// run in parallel while settlement's exclusive lock still waits for them.
	GetTournamentForShare(ctx context.Context, id uuid.UUID) (*domain.Tournament, error)

	// GetParticipantForUpdate locks the participant row. Returns nil, nil when absent.
	GetParticipantForUpdate(ctx context.Context, tournamentID uuid.UUID, playerID string) (*domain.Participant, error)

	InsertParticipant(ctx context.Context, p *domain.Participant) error
	UpdateParticipantScore(ctx context.Context, p *domain.Participant) error
	UpdateParticipantAutoRenew(ctx context.Context, tournamentID uuid.UUID, playerID string, autoRenew bool) error

	// AddParticipant increments current_participants and grows the prize pool.
	AddParticipant(ctx context.Context, tournamentID uuid.UUID, poolIncrease decimal.Decimal) error

	InsertAttempt(ctx context.Context, tournamentID uuid.UUID, playerID string, score int64, at time.Time) error
}
