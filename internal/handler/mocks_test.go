package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/PrizeArena_Go/internal/domain"
	"github.com/osse101/PrizeArena_Go/internal/event"
	"github.com/osse101/PrizeArena_Go/internal/eventlog"
)

// MockTournamentService is a mock implementation of tournament.Service
type MockTournamentService struct {
	mock.Mock
}

func (m *MockTournamentService) Create(ctx context.Context, spec domain.TournamentSpec, preset string) (*domain.Tournament, error) {
	args := m.Called(ctx, spec, preset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tournament), args.Error(1)
}

func (m *MockTournamentService) Get(ctx context.Context, id uuid.UUID) (*domain.Tournament, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tournament), args.Error(1)
}

func (m *MockTournamentService) List(ctx context.Context, status *domain.TournamentStatus, limit int) ([]domain.Tournament, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tournament), args.Error(1)
}

func (m *MockTournamentService) ListExpiredUnsettled(ctx context.Context, now time.Time) ([]domain.Tournament, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tournament), args.Error(1)
}

func (m *MockTournamentService) ActivateStarted(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTournamentService) GetLeaderboard(ctx context.Context, id uuid.UUID, limit int) ([]domain.LeaderboardEntry, error) {
	args := m.Called(ctx, id, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LeaderboardEntry), args.Error(1)
}

func (m *MockTournamentService) GetReceipts(ctx context.Context, id uuid.UUID) ([]domain.PrizeReceipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PrizeReceipt), args.Error(1)
}

func (m *MockTournamentService) InvalidateLeaderboard(ctx context.Context, id uuid.UUID) {
	m.Called(ctx, id)
}

func (m *MockTournamentService) Presets() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

// MockParticipationService is a mock implementation of participation.Service
type MockParticipationService struct {
	mock.Mock
}

func (m *MockParticipationService) RecordAttempt(ctx context.Context, tournamentID uuid.UUID, playerID, displayName string, score int64) (*domain.AttemptResult, error) {
	args := m.Called(ctx, tournamentID, playerID, displayName, score)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AttemptResult), args.Error(1)
}

func (m *MockParticipationService) Join(ctx context.Context, tournamentID uuid.UUID, playerID, displayName string, autoRenew bool) (*domain.Participant, error) {
	args := m.Called(ctx, tournamentID, playerID, displayName, autoRenew)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Participant), args.Error(1)
}

// MockSettlementService is a mock implementation of settlement.Service
type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) RunSettlementPass(ctx context.Context, now time.Time) ([]domain.SettlementOutcome, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SettlementOutcome), args.Error(1)
}

func (m *MockSettlementService) SettleTournament(ctx context.Context, id uuid.UUID, now time.Time) domain.SettlementOutcome {
	args := m.Called(ctx, id, now)
	return args.Get(0).(domain.SettlementOutcome)
}

// MockWalletRepository is a mock implementation of repository.Wallet
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) GetBalance(ctx context.Context, playerID string) (*domain.WalletBalance, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletBalance), args.Error(1)
}

func (m *MockWalletRepository) ListLedger(ctx context.Context, playerID string, limit int) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, playerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockWalletRepository) Deposit(ctx context.Context, playerID string, amount decimal.Decimal, key string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, playerID, amount, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

// MockDBPool mocks the database.Pool interface
type MockDBPool struct {
	mock.Mock
}

func (m *MockDBPool) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDBPool) Close() {
	m.Called()
}

// MockPayoutRepository is a mock implementation of repository.Payout
type MockPayoutRepository struct {
	mock.Mock
}

func (m *MockPayoutRepository) ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]domain.PayoutEvent, error) {
	args := m.Called(ctx, now, lease, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayoutEvent), args.Error(1)
}

func (m *MockPayoutRepository) MarkDispatched(ctx context.Context, id uuid.UUID, externalRef string, at time.Time) error {
	return m.Called(ctx, id, externalRef, at).Error(0)
}

func (m *MockPayoutRepository) MarkRetry(ctx context.Context, id uuid.UUID, attempts int, nextAttemptAt time.Time, lastError string) error {
	return m.Called(ctx, id, attempts, nextAttemptAt, lastError).Error(0)
}

func (m *MockPayoutRepository) MarkDead(ctx context.Context, id uuid.UUID, attempts int, lastError string) error {
	return m.Called(ctx, id, attempts, lastError).Error(0)
}

func (m *MockPayoutRepository) CountPending(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPayoutRepository) ListByTournament(ctx context.Context, tournamentID uuid.UUID) ([]domain.PayoutEvent, error) {
	args := m.Called(ctx, tournamentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayoutEvent), args.Error(1)
}

// MockEventLogService is a mock implementation of eventlog.Service
type MockEventLogService struct {
	mock.Mock
}

func (m *MockEventLogService) Subscribe(bus event.Bus) error {
	return m.Called(bus).Error(0)
}

func (m *MockEventLogService) History(ctx context.Context, tournamentID string, limit int) ([]eventlog.Entry, error) {
	args := m.Called(ctx, tournamentID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]eventlog.Entry), args.Error(1)
}

func (m *MockEventLogService) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	args := m.Called(ctx, retention)
	return args.Get(0).(int64), args.Error(1)
}
