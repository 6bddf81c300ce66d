package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/PrizeArena_Go/internal/domain"
)

// seedPayouts inserts n receipts with pending payout events due at testNow.
func seedPayouts(t *testing.T, pool *pgxpool.Pool, n int) *domain.Tournament {
	t.Helper()
	ctx := context.Background()

	tour := newTestTournament(t, nil)
	require.NoError(t, NewTournamentRepository(pool).CreateTournament(ctx, tour))

	for i := 1; i <= n; i++ {
		receipt := &domain.PrizeReceipt{
			ID:           uuid.New(),
			TournamentID: tour.ID,
			PlayerID:     "player-" + uuid.NewString()[:8],
			DisplayName:  "winner",
			Place:        i,
			Amount:       dec("5"),
			Paid:         true,
			CreatedAt:    testNow,
		}
		_, err := pool.Exec(ctx, `
			INSERT INTO prize_receipts (id, tournament_id, player_id, display_name, place, amount, paid, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7)`,
			receipt.ID, receipt.TournamentID, receipt.PlayerID, receipt.DisplayName, receipt.Place, receipt.Amount, receipt.CreatedAt)
		require.NoError(t, err)

		evt := domain.NewPayoutEvent(receipt, testNow)
		_, err = pool.Exec(ctx, `
			INSERT INTO payout_events (id, receipt_id, tournament_id, player_id, amount, next_attempt_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			evt.ID, evt.ReceiptID, evt.TournamentID, evt.PlayerID, evt.Amount, evt.NextAttemptAt)
		require.NoError(t, err)
	}
	return tour
}

func TestPayoutRepository_ConcurrentClaimsAreDisjoint(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	seedPayouts(t, pool, 12)

	repo := NewPayoutRepository(pool)

	var (
		mu   sync.Mutex
		seen = map[uuid.UUID]int{}
		wg   sync.WaitGroup
	)
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, err := repo.ClaimDue(ctx, testNow, time.Minute, 5)
			assert.NoError(t, err)
			mu.Lock()
			defer mu.Unlock()
			for _, e := range claimed {
				seen[e.ID]++
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 12)
	for id, n := range seen {
		assert.Equal(t, 1, n, "payout %s claimed %d times", id, n)
	}

	// Leased rows are invisible until the lease runs out
	none, err := repo.ClaimDue(ctx, testNow, time.Minute, 50)
	require.NoError(t, err)
	assert.Empty(t, none)

	expired, err := repo.ClaimDue(ctx, testNow.Add(2*time.Minute), time.Minute, 50)
	require.NoError(t, err)
	assert.Len(t, expired, 12)
}

func TestPayoutRepository_StatusTransitions(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	tour := seedPayouts(t, pool, 3)

	repo := NewPayoutRepository(pool)
	claimed, err := repo.ClaimDue(ctx, testNow, time.Minute, 10)
	require.NoError(t, err)
	require.Len(t, claimed, 3)

	pending, err := repo.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pending)

	require.NoError(t, repo.MarkDispatched(ctx, claimed[0].ID, "ref-1", testNow))
	require.NoError(t, repo.MarkRetry(ctx, claimed[1].ID, 1, testNow.Add(time.Hour), "gateway timeout"))
	require.NoError(t, repo.MarkDead(ctx, claimed[2].ID, 5, "account closed"))

	assert.ErrorIs(t, repo.MarkDispatched(ctx, claimed[0].ID, "ref-2", testNow), domain.ErrPayoutNotFound)
	assert.ErrorIs(t, repo.MarkRetry(ctx, uuid.New(), 1, testNow, "x"), domain.ErrPayoutNotFound)

	pending, err = repo.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)

	all, err := repo.ListByTournament(ctx, tour.ID)
	require.NoError(t, err)
	require.Len(t, all, 3)

	byID := map[uuid.UUID]domain.PayoutEvent{}
	for _, e := range all {
		byID[e.ID] = e
	}

	dispatched := byID[claimed[0].ID]
	assert.Equal(t, domain.PayoutStatusDispatched, dispatched.Status)
	require.NotNil(t, dispatched.ExternalRef)
	assert.Equal(t, "ref-1", *dispatched.ExternalRef)
	assert.Nil(t, dispatched.LastError)

	retried := byID[claimed[1].ID]
	assert.Equal(t, domain.PayoutStatusPending, retried.Status)
	assert.Equal(t, 1, retried.Attempts)
	require.NotNil(t, retried.LastError)
	assert.Equal(t, "gateway timeout", *retried.LastError)

	dead := byID[claimed[2].ID]
	assert.Equal(t, domain.PayoutStatusDead, dead.Status)
	assert.Equal(t, 5, dead.Attempts)

	refund, err := NewWalletRepository(pool).GetBalance(ctx, dead.PlayerID)
	require.NoError(t, err)
	assert.True(t, refund.Balance.Equal(dead.Amount), "refund %s", refund.Balance)
}

func TestPayoutRepository_ListByTournamentEmpty(t *testing.T) {
	pool := setupTestDB(t)

	out, err := NewPayoutRepository(pool).ListByTournament(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
