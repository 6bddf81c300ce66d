package participation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/PrizeArena_Go/internal/domain"
	"github.com/osse101/PrizeArena_Go/internal/event"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func activeTournament() *domain.Tournament {
	return &domain.Tournament{
		ID:                 uuid.New(),
		Name:               "Sprint",
		EntryFee:           decimal.Zero,
		PrizePool:          decimal.NewFromInt(100),
		BasePrizePool:      decimal.NewFromInt(100),
		PlatformFeePercent: decimal.NewFromInt(10),
		Status:             domain.TournamentStatusActive,
		StartTime:          testNow.Add(-time.Hour),
		EndTime:            testNow.Add(time.Hour),
		PrizeDistribution:  domain.PrizeDistribution{1: decimal.NewFromInt(100)},
	}
}

type fixture struct {
	repo  *MockRepository
	tx    *MockTx
	bus   *MockEventBus
	inval *MockInvalidator
	svc   Service
}

func newFixture() *fixture {
	f := &fixture{
		repo:  new(MockRepository),
		tx:    new(MockTx),
		bus:   new(MockEventBus),
		inval: new(MockInvalidator),
	}
	f.repo.On("BeginParticipationTx", mock.Anything).Return(f.tx, nil)
	f.tx.On("Rollback", mock.Anything).Return(nil)
	f.svc = NewService(f.repo, f.bus, f.inval, fixedClock)
	return f
}

func publishes(eventType event.Type) interface{} {
	return mock.MatchedBy(func(evt event.Event) bool { return evt.Type == eventType })
}

func TestRecordAttempt_NegativeScore(t *testing.T) {
	f := newFixture()

	_, err := f.svc.RecordAttempt(context.Background(), uuid.New(), "p1", "", -1)
	assert.ErrorIs(t, err, domain.ErrInvalidScore)
	f.repo.AssertNotCalled(t, "BeginParticipationTx", mock.Anything)
}

func TestRecordAttempt_TournamentNotFound(t *testing.T) {
	f := newFixture()
	id := uuid.New()
	f.tx.On("GetTournamentForShare", mock.Anything, id).Return(nil, nil)

	_, err := f.svc.RecordAttempt(context.Background(), id, "p1", "", 10)
	assert.ErrorIs(t, err, domain.ErrTournamentNotFound)
	f.tx.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestRecordAttempt_WindowChecks(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.Tournament)
		wantErr error
	}{
		{"ended", func(tour *domain.Tournament) { tour.EndTime = testNow.Add(-time.Second) }, domain.ErrTournamentClosed},
		{"finished", func(tour *domain.Tournament) { tour.Status = domain.TournamentStatusFinished }, domain.ErrTournamentClosed},
		{"not started", func(tour *domain.Tournament) {
			tour.Status = domain.TournamentStatusUpcoming
			tour.StartTime = testNow.Add(time.Minute)
		}, domain.ErrTournamentNotStarted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tour := activeTournament()
			tt.mutate(tour)
			f.tx.On("GetTournamentForShare", mock.Anything, tour.ID).Return(tour, nil)

			_, err := f.svc.RecordAttempt(context.Background(), tour.ID, "p1", "", 10)
			assert.ErrorIs(t, err, tt.wantErr)
			f.tx.AssertNotCalled(t, "GetParticipantForUpdate", mock.Anything, mock.Anything, mock.Anything)
			f.tx.AssertNotCalled(t, "Commit", mock.Anything)
		})
	}
}

func TestRecordAttempt_NewPlayerPaysEntryFee(t *testing.T) {
	f := newFixture()
	tour := activeTournament()
	tour.EntryFee = decimal.NewFromInt(5)

	f.tx.On("GetTournamentForUpdate", mock.Anything, tour.ID).Return(tour, nil)
	f.tx.On("GetTournamentForShare", mock.Anything, tour.ID).Return(tour, nil)
	f.tx.On("GetParticipantForUpdate", mock.Anything, tour.ID, "p1").Return(nil, nil)
	f.tx.On("DebitWallet", mock.Anything, "p1", tour.EntryFee, domain.EntryFeeKey(tour.ID, "p1"), domain.LedgerReasonEntryFee).
		Return(&domain.LedgerEntry{}, true, nil)
	f.tx.On("InsertParticipant", mock.Anything, mock.MatchedBy(func(p *domain.Participant) bool {
		return p.BestScore == 42 && p.Attempts == 1 && p.PaidEntry && p.DisplayName == "Player One"
	})).Return(nil)
	f.tx.On("AddParticipant", mock.Anything, tour.ID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.RequireFromString("4.5"))
	})).Return(nil)
	f.tx.On("InsertAttempt", mock.Anything, tour.ID, "p1", int64(42), testNow).Return(nil)
	f.tx.On("Commit", mock.Anything).Return(nil)
	f.bus.On("Publish", mock.Anything, publishes(event.ParticipantJoined)).Return(nil)
	f.bus.On("Publish", mock.Anything, publishes(event.ParticipantNewBest)).Return(nil)
	f.inval.On("InvalidateLeaderboard", mock.Anything, tour.ID).Return()

	res, err := f.svc.RecordAttempt(context.Background(), tour.ID, " p1 ", " Player One ", 42)
	require.NoError(t, err)
	assert.Equal(t, &domain.AttemptResult{BestScore: 42, IsNewBest: true, Attempts: 1}, res)

	f.tx.AssertExpectations(t)
	f.bus.AssertExpectations(t)
	f.inval.AssertExpectations(t)
}

func TestRecordAttempt_FirstAttemptOfZeroIsNewBest(t *testing.T) {
	f := newFixture()
	tour := activeTournament()

	f.tx.On("GetTournamentForUpdate", mock.Anything, tour.ID).Return(tour, nil)
	f.tx.On("GetTournamentForShare", mock.Anything, tour.ID).Return(tour, nil)
	f.tx.On("GetParticipantForUpdate", mock.Anything, tour.ID, "p1").Return(nil, nil)
	f.tx.On("InsertParticipant", mock.Anything, mock.Anything).Return(nil)
	f.tx.On("AddParticipant", mock.Anything, tour.ID, mock.MatchedBy(func(d decimal.Decimal) bool { return d.IsZero() })).Return(nil)
	f.tx.On("InsertAttempt", mock.Anything, tour.ID, "p1", int64(0), testNow).Return(nil)
	f.tx.On("Commit", mock.Anything).Return(nil)
	f.bus.On("Publish", mock.Anything, mock.Anything).Return(nil)
	f.inval.On("InvalidateLeaderboard", mock.Anything, tour.ID).Return()

	res, err := f.svc.RecordAttempt(context.Background(), tour.ID, "p1", "", 0)
	require.NoError(t, err)
	assert.True(t, res.IsNewBest)
	f.tx.AssertNotCalled(t, "DebitWallet", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordAttempt_InsufficientFunds(t *testing.T) {
	f := newFixture()
	tour := activeTournament()
	tour.EntryFee = decimal.NewFromInt(5)

	f.tx.On("GetTournamentForUpdate", mock.Anything, tour.ID).Return(tour, nil)
	f.tx.On("GetTournamentForShare", mock.Anything, tour.ID).Return(tour, nil)
	f.tx.On("GetParticipantForUpdate", mock.Anything, tour.ID, "p1").Return(nil, nil)
	f.tx.On("DebitWallet", mock.Anything, "p1", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, false, domain.ErrInsufficientFunds)

	_, err := f.svc.RecordAttempt(context.Background(), tour.ID, "p1", "", 10)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	f.tx.AssertNotCalled(t, "InsertParticipant", mock.Anything, mock.Anything)
	f.tx.AssertNotCalled(t, "Commit", mock.Anything)
	f.bus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestRecordAttempt_CapacityOnlyLimitsNewPlayers(t *testing.T) {
	limit := 1

	t.Run("new player rejected", func(t *testing.T) {
		f := newFixture()
		tour := activeTournament()
		tour.MaxParticipants = &limit
		tour.CurrentParticipants = 1

		f.tx.On("GetTournamentForUpdate", mock.Anything, tour.ID).Return(tour, nil)
		f.tx.On("GetTournamentForShare", mock.Anything, tour.ID).Return(tour, nil)
		f.tx.On("GetParticipantForUpdate", mock.Anything, tour.ID, "p2").Return(nil, nil)

		_, err := f.svc.RecordAttempt(context.Background(), tour.ID, "p2", "", 10)
		assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
	})

	t.Run("existing player accepted", func(t *testing.T) {
		f := newFixture()
		tour := activeTournament()
		tour.MaxParticipants = &limit
		tour.CurrentParticipants = 1

		existing := domain.NewParticipant(tour.ID, "p1", "", testNow.Add(-time.Minute))
		existing.ApplyAttempt(5, testNow.Add(-time.Minute))

		f.tx.On("GetTournamentForShare", mock.Anything, tour.ID).Return(tour, nil)
		f.tx.On("GetParticipantForUpdate", mock.Anything, tour.ID, "p1").Return(existing, nil)
		f.tx.On("UpdateParticipantScore", mock.Anything, mock.Anything).Return(nil)
		f.tx.On("InsertAttempt", mock.Anything, tour.ID, "p1", int64(10), testNow).Return(nil)
		f.tx.On("Commit", mock.Anything).Return(nil)
		f.bus.On("Publish", mock.Anything, publishes(event.ParticipantNewBest)).Return(nil)
		f.inval.On("InvalidateLeaderboard", mock.Anything, tour.ID).Return()

		res, err := f.svc.RecordAttempt(context.Background(), tour.ID, "p1", "", 10)
		require.NoError(t, err)
		assert.Equal(t, int64(10), res.BestScore)
		assert.Equal(t, 2, res.Attempts)
	})
}

func TestRecordAttempt_LowerScoreKeepsBest(t *testing.T) {
	f := newFixture()
	tour := activeTournament()

	lastBest := testNow.Add(-time.Minute)
	existing := domain.NewParticipant(tour.ID, "p1", "", lastBest)
	existing.ApplyAttempt(80, lastBest)

	f.tx.On("GetTournamentForShare", mock.Anything, tour.ID).Return(tour, nil)
	f.tx.On("GetParticipantForUpdate", mock.Anything, tour.ID, "p1").Return(existing, nil)
	f.tx.On("UpdateParticipantScore", mock.Anything, mock.MatchedBy(func(p *domain.Participant) bool {
		return p.BestScore == 80 && p.Attempts == 2 && p.LastAttemptAt.Equal(lastBest)
	})).Return(nil)
	f.tx.On("InsertAttempt", mock.Anything, tour.ID, "p1", int64(30), testNow).Return(nil)
	f.tx.On("Commit", mock.Anything).Return(nil)

	res, err := f.svc.RecordAttempt(context.Background(), tour.ID, "p1", "", 30)
	require.NoError(t, err)
	assert.Equal(t, &domain.AttemptResult{BestScore: 80, IsNewBest: false, Attempts: 2}, res)

	f.bus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	f.inval.AssertNotCalled(t, "InvalidateLeaderboard", mock.Anything, mock.Anything)
}

func TestRecordAttempt_CommitFailure(t *testing.T) {
	f := newFixture()
	tour := activeTournament()
	existing := domain.NewParticipant(tour.ID, "p1", "", testNow)

	f.tx.On("GetTournamentForShare", mock.Anything, tour.ID).Return(tour, nil)
	f.tx.On("GetParticipantForUpdate", mock.Anything, tour.ID, "p1").Return(existing, nil)
	f.tx.On("UpdateParticipantScore", mock.Anything, mock.Anything).Return(nil)
	f.tx.On("InsertAttempt", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.tx.On("Commit", mock.Anything).Return(errors.New("connection reset"))

	_, err := f.svc.RecordAttempt(context.Background(), tour.ID, "p1", "", 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrContextCommit)
	f.bus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestJoin_NewPlayerWithAutoRenew(t *testing.T) {
	f := newFixture()
	tour := activeTournament()

	f.tx.On("GetTournamentForUpdate", mock.Anything, tour.ID).Return(tour, nil)
	f.tx.On("GetTournamentForShare", mock.Anything, tour.ID).Return(tour, nil)
	f.tx.On("GetParticipantForUpdate", mock.Anything, tour.ID, "p1").Return(nil, nil)
	f.tx.On("InsertParticipant", mock.Anything, mock.MatchedBy(func(p *domain.Participant) bool {
		return p.AutoRenew && p.Attempts == 0 && p.BestScore == 0
	})).Return(nil)
	f.tx.On("AddParticipant", mock.Anything, tour.ID, mock.Anything).Return(nil)
	f.tx.On("Commit", mock.Anything).Return(nil)
	f.bus.On("Publish", mock.Anything, publishes(event.ParticipantJoined)).Return(nil)
	f.inval.On("InvalidateLeaderboard", mock.Anything, tour.ID).Return()

	p, err := f.svc.Join(context.Background(), tour.ID, "p1", "One", true)
	require.NoError(t, err)
	assert.True(t, p.AutoRenew)
	f.tx.AssertNotCalled(t, "InsertAttempt", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.bus.AssertExpectations(t)
}

func TestJoin_ExistingPlayerIsIdempotent(t *testing.T) {
	f := newFixture()
	tour := activeTournament()
	tour.EntryFee = decimal.NewFromInt(5)
	existing := domain.NewParticipant(tour.ID, "p1", "", testNow)
	existing.PaidEntry = true

	f.tx.On("GetTournamentForShare", mock.Anything, tour.ID).Return(tour, nil)
	f.tx.On("GetParticipantForUpdate", mock.Anything, tour.ID, "p1").Return(existing, nil)
	f.tx.On("UpdateParticipantAutoRenew", mock.Anything, tour.ID, "p1", true).Return(nil)
	f.tx.On("Commit", mock.Anything).Return(nil)

	p, err := f.svc.Join(context.Background(), tour.ID, "p1", "", true)
	require.NoError(t, err)
	assert.True(t, p.AutoRenew)

	f.tx.AssertNotCalled(t, "DebitWallet", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.tx.AssertNotCalled(t, "AddParticipant", mock.Anything, mock.Anything, mock.Anything)
	f.bus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestJoin_RequiresPlayerID(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Join(context.Background(), uuid.New(), "   ", "", false)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRecordAttempt_ExistingPlayerHoldsSharedTournamentLock(t *testing.T) {
	f := newFixture()
	tour := activeTournament()
	existing := domain.NewParticipant(tour.ID, "p1", "", testNow.Add(-time.Minute))
	existing.ApplyAttempt(5, testNow.Add(-time.Minute))

	f.tx.On("GetTournamentForShare", mock.Anything, tour.ID).Return(tour, nil)
	f.tx.On("GetParticipantForUpdate", mock.Anything, tour.ID, "p1").Return(existing, nil)
	f.tx.On("UpdateParticipantScore", mock.Anything, mock.Anything).Return(nil)
	f.tx.On("InsertAttempt", mock.Anything, tour.ID, "p1", int64(3), testNow).Return(nil)
	f.tx.On("Commit", mock.Anything).Return(nil)

	_, err := f.svc.RecordAttempt(context.Background(), tour.ID, "p1", "", 3)
	require.NoError(t, err)

	f.tx.AssertNotCalled(t, "GetTournamentForUpdate", mock.Anything, mock.Anything)
	f.repo.AssertNumberOfCalls(t, "BeginParticipationTx", 1)
}

func TestRecordAttempt_NewPlayerRetriesWithExclusiveLock(t *testing.T) {
	f := newFixture()
	tour := activeTournament()

	f.tx.On("GetTournamentForShare", mock.Anything, tour.ID).Return(tour, nil).Once()
	f.tx.On("GetTournamentForUpdate", mock.Anything, tour.ID).Return(tour, nil).Once()
	f.tx.On("GetParticipantForUpdate", mock.Anything, tour.ID, "p1").Return(nil, nil).Twice()
	f.tx.On("InsertParticipant", mock.Anything, mock.Anything).Return(nil).Once()
	f.tx.On("AddParticipant", mock.Anything, tour.ID, mock.Anything).Return(nil).Once()
	f.tx.On("InsertAttempt", mock.Anything, tour.ID, "p1", int64(7), testNow).Return(nil).Once()
	f.tx.On("Commit", mock.Anything).Return(nil).Once()
	f.bus.On("Publish", mock.Anything, mock.Anything).Return(nil)
	f.inval.On("InvalidateLeaderboard", mock.Anything, tour.ID).Return()

	res, err := f.svc.RecordAttempt(context.Background(), tour.ID, "p1", "", 7)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Attempts)

	f.repo.AssertNumberOfCalls(t, "BeginParticipationTx", 2)
	f.tx.AssertExpectations(t)
}
