package payout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/PrizeArena_Go/internal/domain"
	"github.com/osse101/PrizeArena_Go/internal/event"
	"github.com/osse101/PrizeArena_Go/internal/payment"
)

// MockRepository is a mock implementation of repository.Payout
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]domain.PayoutEvent, error) {
	args := m.Called(ctx, now, lease, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayoutEvent), args.Error(1)
}

func (m *MockRepository) MarkDispatched(ctx context.Context, id uuid.UUID, externalRef string, at time.Time) error {
	args := m.Called(ctx, id, externalRef, at)
	return args.Error(0)
}

func (m *MockRepository) MarkRetry(ctx context.Context, id uuid.UUID, attempts int, nextAttemptAt time.Time, lastError string) error {
	args := m.Called(ctx, id, attempts, nextAttemptAt, lastError)
	return args.Error(0)
}

func (m *MockRepository) MarkDead(ctx context.Context, id uuid.UUID, attempts int, lastError string) error {
	args := m.Called(ctx, id, attempts, lastError)
	return args.Error(0)
}

func (m *MockRepository) CountPending(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) ListByTournament(ctx context.Context, tournamentID uuid.UUID) ([]domain.PayoutEvent, error) {
	args := m.Called(ctx, tournamentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayoutEvent), args.Error(1)
}

// MockGateway is a mock implementation of payment.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) SendFunds(ctx context.Context, t payment.Transfer) (payment.TransferReceipt, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(payment.TransferReceipt), args.Error(1)
}

func (m *MockGateway) GetBalance(ctx context.Context, playerID string) (decimal.Decimal, error) {
	args := m.Called(ctx, playerID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockGateway) CheckStatus(ctx context.Context, reference string) (payment.TransferStatus, error) {
	args := m.Called(ctx, reference)
	return args.Get(0).(payment.TransferStatus), args.Error(1)
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
