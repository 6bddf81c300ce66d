package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/PrizeArena_Go/internal/database/postgres"
	"github.com/osse101/PrizeArena_Go/internal/eventlog"
	"github.com/osse101/PrizeArena_Go/internal/repository"
)

// Repositories holds all repository implementations used by the application.
type Repositories struct {
	Tournament    repository.Tournament
	Participation repository.Participation
	Settlement    repository.Settlement
	Wallet        repository.Wallet
	Payout        repository.Payout
	EventLog      eventlog.Repository
}

// InitializeRepositories creates all repository implementations over one pool.
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Tournament:    postgres.NewTournamentRepository(dbPool),
		Participation: postgres.NewParticipationRepository(dbPool),
		Settlement:    postgres.NewSettlementRepository(dbPool),
		Wallet:        postgres.NewWalletRepository(dbPool),
		Payout:        postgres.NewPayoutRepository(dbPool),
		EventLog:      postgres.NewEventLogRepository(dbPool),
	}
}
