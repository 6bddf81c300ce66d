package eventlog

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

var domainNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return domainNow }

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

func TestService_Subscribe(t *testing.T) {
	mockBus := new(MockEventBus)
	for _, et := range event.AllTypes {
		mockBus.On("Subscribe", et, mock.Anything).Return()
	}

	require.NoError(t, NewService(new(MockRepository), nil).Subscribe(mockBus))
	mockBus.AssertExpectations(t)
}

func TestService_LogsTypedPayloadThroughBus(t *testing.T) {
	mockRepo := new(MockRepository)
	bus := event.NewMemoryBus()
	require.NoError(t, NewService(mockRepo, fixedClock).Subscribe(bus))

	p := domain.NewParticipant(uuid.New(), "p1", "Player One", domainNow)
	p.ApplyAttempt(77, domainNow)
	tid := p.TournamentID.String()

	mockRepo.On("Append", mock.Anything, mock.MatchedBy(func(rec Record) bool {
		return rec.EventType == string(event.ParticipantNewBest) &&
			rec.TournamentID != nil && *rec.TournamentID == tid &&
			rec.Payload["player_id"] == "p1" && rec.Payload["best_score"] == float64(77) &&
			rec.OccurredAt.Equal(domainNow)
	})).Return(nil)

	require.NoError(t, bus.Publish(context.Background(), event.NewParticipantNewBestEvent(p)))
	mockRepo.AssertExpectations(t)
}

func TestService_HandleEventPassesMetadata(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo, fixedClock).(*service)

	payout := &domain.PayoutEvent{ID: uuid.New(), ReceiptID: uuid.New(), TournamentID: uuid.New(), PlayerID: "p1", Amount: decimal.NewFromInt(5)}
	evt := event.NewPayoutEvent(event.PayoutDispatched, payout)
	tid := payout.TournamentID.String()

	mockRepo.On("Append", mock.Anything, mock.MatchedBy(func(rec Record) bool {
		return rec.EventType == string(event.PayoutDispatched) &&
			*rec.TournamentID == tid &&
			rec.Metadata["receipt_id"] == payout.ReceiptID.String()
	})).Return(nil)

	require.NoError(t, svc.record(context.Background(), evt))
	mockRepo.AssertExpectations(t)
}

func TestService_HandleEventSkipsScalarPayload(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo, fixedClock).(*service)

	err := svc.record(context.Background(), event.Event{Type: event.TournamentSettled, Payload: 42})

	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "Append")
}

func TestService_HandleEventPropagatesRepoError(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo, fixedClock).(*service)

	mockRepo.On("Append", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	err := svc.record(context.Background(), event.Event{
		Type:    event.TournamentSettled,
		Payload: map[string]interface{}{"tournament_id": "t1"},
	})
	assert.EqualError(t, err, "insert failed")
}

func TestService_History(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo, fixedClock)
	tid := "t1"

	mockRepo.On("Query", mock.Anything, Filter{TournamentID: &tid, Limit: 20}).
		Return([]Entry{{ID: 1, EventType: string(event.TournamentCreated)}}, nil)

	events, err := svc.History(context.Background(), tid, 20)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestService_PurgeUsesClock(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo, fixedClock)

	mockRepo.On("PurgeBefore", mock.Anything, domainNow.Add(-48*time.Hour)).Return(int64(3), nil)

	deleted, err := svc.Purge(context.Background(), 48*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	deleted, err = svc.Purge(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, deleted)
	mockRepo.AssertNumberOfCalls(t, "PurgeBefore", 1)
}
