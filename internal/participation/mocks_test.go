package participation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/PrizeArena_Go/internal/domain"
	"github.com/osse101/PrizeArena_Go/internal/event"
	"github.com/osse101/PrizeArena_Go/internal/repository"
)

// MockRepository is a mock implementation of repository.Participation
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) BeginParticipationTx(ctx context.Context) (repository.ParticipationTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.ParticipationTx), args.Error(1)
}

// MockTx is a mock implementation of repository.ParticipationTx
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) CreditWallet(ctx context.Context, playerID string, amount decimal.Decimal, key string, reason domain.LedgerReason) (*domain.LedgerEntry, bool, error) {
	args := m.Called(ctx, playerID, amount, key, reason)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Bool(1), args.Error(2)
}

func (m *MockTx) DebitWallet(ctx context.Context, playerID string, amount decimal.Decimal, key string, reason domain.LedgerReason) (*domain.LedgerEntry, bool, error) {
	args := m.Called(ctx, playerID, amount, key, reason)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Bool(1), args.Error(2)
}

func (m *MockTx) GetTournamentForUpdate(ctx context.Context, id uuid.UUID) (*domain.Tournament, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tournament), args.Error(1)
}

func (m *MockTx) GetTournamentForShare(ctx context.Context, id uuid.UUID) (*domain.Tournament, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tournament), args.Error(1)
}

func (m *MockTx) GetParticipantForUpdate(ctx context.Context, tournamentID uuid.UUID, playerID string) (*domain.Participant, error) {
	args := m.Called(ctx, tournamentID, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Participant), args.Error(1)
}

func (m *MockTx) InsertParticipant(ctx context.Context, p *domain.Participant) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockTx) UpdateParticipantScore(ctx context.Context, p *domain.Participant) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockTx) UpdateParticipantAutoRenew(ctx context.Context, tournamentID uuid.UUID, playerID string, autoRenew bool) error {
	args := m.Called(ctx, tournamentID, playerID, autoRenew)
	return args.Error(0)
}

func (m *MockTx) AddParticipant(ctx context.Context, tournamentID uuid.UUID, poolIncrease decimal.Decimal) error {
	args := m.Called(ctx, tournamentID, poolIncrease)
	return args.Error(0)
}

func (m *MockTx) InsertAttempt(ctx context.Context, tournamentID uuid.UUID, playerID string, score int64, at time.Time) error {
	args := m.Called(ctx, tournamentID, playerID, score, at)
	return args.Error(0)
}

// MockEventBus is a mock implementation of event.Bus
type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, evt event.Event) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func (m *MockEventBus) Subscribe(eventType event.Type, handler event.Handler) {
	m.Called(eventType, handler)
}

// MockInvalidator records leaderboard invalidations
type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) InvalidateLeaderboard(ctx context.Context, id uuid.UUID) {
	m.Called(ctx, id)
}
