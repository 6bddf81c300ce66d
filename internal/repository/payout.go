package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/PrizeArena_Go/internal/domain"
)

// Payout defines the outbox storage drained by the payout worker.
type Payout interface {
	// ClaimDue leases up to limit pending events due at now by pushing their
	// next_attempt_at forward by lease, so concurrent workers skip them.
	ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]domain.PayoutEvent, error)
	MarkDispatched(ctx context.Context, id uuid.UUID, externalRef string, at time.Time) error
	MarkRetry(ctx context.Context, id uuid.UUID, attempts int, nextAttemptAt time.Time, lastError string) error
	MarkDead(ctx context.Context, id uuid.UUID, attempts int, lastError string) error
	CountPending(ctx context.Context) (int64, error)
	ListByTournament(ctx context.Context, tournamentID uuid.UUID) ([]domain.PayoutEvent, error)
}
