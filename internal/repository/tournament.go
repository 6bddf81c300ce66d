package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/PrizeArena_Go/internal/domain"
)

// Tournament defines the storage behind the tournament registry.
// Lookups return nil, nil when the row does not exist.
type Tournament interface {
	CreateTournament(ctx context.Context, t *domain.Tournament) error
	GetTournament(ctx context.Context, id uuid.UUID) (*domain.Tournament, error)
	ListTournaments(ctx context.Context, status *domain.TournamentStatus, limit int) ([]domain.Tournament, error)

	// ListExpiredUnsettled returns upcoming or active tournaments whose end_time
	// is before now, earliest end first.
	ListExpiredUnsettled(ctx context.Context, now time.Time) ([]domain.Tournament, error)

	// ActivateStarted flips upcoming tournaments whose window contains now to active.
	ActivateStarted(ctx context.Context, now time.Time) (int64, error)

	// GetLeaderboard ranks participants by best score, then earliest join.
	GetLeaderboard(ctx context.Context, id uuid.UUID, limit int) ([]domain.LeaderboardEntry, error)
	GetReceipts(ctx context.Context, id uuid.UUID) ([]domain.PrizeReceipt, error)
}
