package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/osse101/PrizeArena_Go/internal/database"
	"github.com/osse101/PrizeArena_Go/internal/domain"
)

var (
	containerOnce sync.Once
	sharedPool    *pgxpool.Pool
	containerErr  error
)

// startContainer boots one migrated Postgres for the whole package. A Docker
// failure is reported as an error so callers can skip.
func startContainer() {
	ctx := context.Background()

	var container *tcpostgres.PostgresContainer
	func() {
		defer func() {
			if r := recover(); r != nil {
				containerErr = errDocker{r}
			}
		}()
		container, containerErr = tcpostgres.Run(ctx,
			"postgres:15-alpine",
			tcpostgres.WithDatabase("testdb"),
			tcpostgres.WithUsername("testuser"),
			tcpostgres.WithPassword("testpass"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
	}()
	if containerErr != nil {
		return
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		containerErr = err
		return
	}

	pool, err := database.NewPool(ctx, database.PoolConfig{ConnString: connStr, MaxConns: 25})
	if err != nil {
		containerErr = err
		return
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		containerErr = err
		return
	}
	sharedPool = pool
}

type errDocker struct{ cause any }

func (e errDocker) Error() string { return fmt.Sprintf("docker unavailable: %v", e.cause) }

// setupTestDB returns the shared pool with every table emptied.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	containerOnce.Do(startContainer)
	if containerErr != nil {
		t.Skipf("Skipping integration test, postgres unavailable: %v", containerErr)
	}

	_, err := sharedPool.Exec(context.Background(), `
		TRUNCATE payout_events, prize_receipts, tournament_attempts, tournament_participants,
		         tournaments, wallet_ledger, wallet_balances, events RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return sharedPool
}

// testNow is truncated to the microsecond precision Postgres stores.
var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// newTestTournament builds an active tournament ending in an hour.
func newTestTournament(t *testing.T, mutate func(*domain.TournamentSpec)) *domain.Tournament {
	t.Helper()
	spec := domain.TournamentSpec{
		Name:               "Weekly Sprint",
		EntryFee:           decimal.Zero,
		PrizePool:          dec("100"),
		PlatformFeePercent: decimal.Zero,
		StartTime:          testNow.Add(-time.Hour),
		EndTime:            testNow.Add(time.Hour),
		PrizeDistribution: domain.PrizeDistribution{
			1: dec("50"),
			2: dec("30"),
			3: dec("20"),
		},
	}
	if mutate != nil {
		mutate(&spec)
	}
	tour, err := domain.NewTournament(spec, testNow)
	require.NoError(t, err)
	return tour
}

// seedParticipant inserts a participant with a fixed best score.
func seedParticipant(t *testing.T, pool *pgxpool.Pool, tournamentID any, playerID string, best int64, joinedAt time.Time) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO tournament_participants (tournament_id, player_id, display_name, best_score, attempts, joined_at)
		VALUES ($1, $2, $2, $3, 1, $4)`, tournamentID, playerID, best, joinedAt)
	require.NoError(t, err)
	_, err = pool.Exec(context.Background(), `
		UPDATE tournaments SET current_participants = current_participants + 1 WHERE id = $1`, tournamentID)
	require.NoError(t, err)
}
