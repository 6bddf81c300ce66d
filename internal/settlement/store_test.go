package settlement

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/osse101/PrizeArena_Go/internal/domain"
	"github.com/osse101/PrizeArena_Go/internal/repository"
)

// memState is the committed view of memStore. Transactions work on a clone.
type memState struct {
	tournaments  map[uuid.UUID]domain.Tournament
	participants map[uuid.UUID][]domain.Participant
	balances     map[string]decimal.Decimal
	ledger       map[string]bool
	receipts     []domain.PrizeReceipt
	payouts      []domain.PayoutEvent
}

func (s memState) clone() memState {
	out := memState{
		tournaments:  make(map[uuid.UUID]domain.Tournament, len(s.tournaments)),
		participants: make(map[uuid.UUID][]domain.Participant, len(s.participants)),
		balances:     make(map[string]decimal.Decimal, len(s.balances)),
		ledger:       make(map[string]bool, len(s.ledger)),
		receipts:     append([]domain.PrizeReceipt(nil), s.receipts...),
		payouts:      append([]domain.PayoutEvent(nil), s.payouts...),
	}
	for k, v := range s.tournaments {
		out.tournaments[k] = v
	}
	for k, v := range s.participants {
		out.participants[k] = append([]domain.Participant(nil), v...)
	}
	for k, v := range s.balances {
		out.balances[k] = v
	}
	for k, v := range s.ledger {
		out.ledger[k] = v
	}
	return out
}

// memStore serialises transactions with a single mutex, which stands in for
// the row lock taken by LockTournament.
type memStore struct {
	txMu  sync.Mutex
	mu    sync.Mutex
	state memState

	failReceiptFor map[uuid.UUID]bool
	finishLost     bool
	listErr        error
}

func newMemStore() *memStore {
	return &memStore{
		state: memState{
			tournaments:  map[uuid.UUID]domain.Tournament{},
			participants: map[uuid.UUID][]domain.Participant{},
			balances:     map[string]decimal.Decimal{},
			ledger:       map[string]bool{},
		},
		failReceiptFor: map[uuid.UUID]bool{},
	}
}

func (s *memStore) addTournament(t *domain.Tournament) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.tournaments[t.ID] = *t
}

func (s *memStore) addParticipant(p domain.Participant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.participants[p.TournamentID] = append(s.state.participants[p.TournamentID], p)
}

func (s *memStore) setBalance(playerID string, amount decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.balances[playerID] = amount
}

func (s *memStore) snapshot() memState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (s *memStore) ListExpiredUnsettled(_ context.Context, now time.Time) ([]domain.Tournament, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Tournament
	for _, t := range s.state.tournaments {
		if t.IsSettleable(now) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndTime.Before(out[j].EndTime) })
	return out, nil
}

func (s *memStore) BeginSettlementTx(_ context.Context) (repository.SettlementTx, error) {
	s.txMu.Lock()
	return &memTx{store: s, state: s.snapshot()}, nil
}

type memTx struct {
	store *memStore
	state memState
	done  bool
}

func (tx *memTx) Commit(_ context.Context) error {
	if tx.done {
		return domain.ErrTxClosed
	}
	tx.done = true
	tx.store.mu.Lock()
	tx.store.state = tx.state
	tx.store.mu.Unlock()
	tx.store.txMu.Unlock()
	return nil
}

func (tx *memTx) Rollback(_ context.Context) error {
	if tx.done {
		return domain.ErrTxClosed
	}
	tx.done = true
	tx.store.txMu.Unlock()
	return nil
}

func (tx *memTx) CreditWallet(_ context.Context, playerID string, amount decimal.Decimal, key string, reason domain.LedgerReason) (*domain.LedgerEntry, bool, error) {
	entry := &domain.LedgerEntry{PlayerID: playerID, Amount: amount, Reason: reason, IdempotencyKey: key}
	if tx.state.ledger[key] {
		return entry, false, nil
	}
	tx.state.ledger[key] = true
	tx.state.balances[playerID] = tx.state.balances[playerID].Add(amount)
	return entry, true, nil
}

func (tx *memTx) DebitWallet(_ context.Context, playerID string, amount decimal.Decimal, key string, reason domain.LedgerReason) (*domain.LedgerEntry, bool, error) {
	entry := &domain.LedgerEntry{PlayerID: playerID, Amount: amount.Neg(), Reason: reason, IdempotencyKey: key}
	if tx.state.ledger[key] {
		return entry, false, nil
	}
	if tx.state.balances[playerID].LessThan(amount) {
		return nil, false, domain.ErrInsufficientFunds
	}
	tx.state.ledger[key] = true
	tx.state.balances[playerID] = tx.state.balances[playerID].Sub(amount)
	return entry, true, nil
}

func (tx *memTx) LockTournament(_ context.Context, id uuid.UUID) (*domain.Tournament, error) {
	t, ok := tx.state.tournaments[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (tx *memTx) GetTopParticipants(_ context.Context, id uuid.UUID, n int) ([]domain.Participant, error) {
	ranked := append([]domain.Participant(nil), tx.state.participants[id]...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.BestScore != b.BestScore {
			return a.BestScore > b.BestScore
		}
		if !a.JoinedAt.Equal(b.JoinedAt) {
			return a.JoinedAt.Before(b.JoinedAt)
		}
		return a.PlayerID < b.PlayerID
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}

func (tx *memTx) InsertPrizeReceipt(_ context.Context, r *domain.PrizeReceipt) error {
	if tx.store.failReceiptFor[r.TournamentID] {
		return errors.New("disk full")
	}
	for _, existing := range tx.state.receipts {
		if existing.TournamentID == r.TournamentID && existing.Place == r.Place {
			return domain.ErrDuplicateReceipt
		}
	}
	tx.state.receipts = append(tx.state.receipts, *r)
	return nil
}

func (tx *memTx) InsertPayoutEvent(_ context.Context, e *domain.PayoutEvent) error {
	tx.state.payouts = append(tx.state.payouts, *e)
	return nil
}

func (tx *memTx) MarkFinished(_ context.Context, id uuid.UUID) (bool, error) {
	if tx.store.finishLost {
		return false, nil
	}
	t, ok := tx.state.tournaments[id]
	if !ok || t.Status == domain.TournamentStatusFinished {
		return false, nil
	}
	t.Status = domain.TournamentStatusFinished
	tx.state.tournaments[id] = t
	return true, nil
}

func (tx *memTx) CreateTournament(_ context.Context, t *domain.Tournament) error {
	tx.state.tournaments[t.ID] = *t
	return nil
}

func (tx *memTx) GetAutoRenewParticipants(_ context.Context, id uuid.UUID) ([]domain.Participant, error) {
	var out []domain.Participant
	for _, p := range tx.state.participants[id] {
		if p.AutoRenew {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].JoinedAt.Before(out[j].JoinedAt) })
	return out, nil
}

func (tx *memTx) InsertParticipant(_ context.Context, p *domain.Participant) error {
	tx.state.participants[p.TournamentID] = append(tx.state.participants[p.TournamentID], *p)
	return nil
}

func (tx *memTx) AddParticipant(_ context.Context, tournamentID uuid.UUID, poolIncrease decimal.Decimal) error {
	t := tx.state.tournaments[tournamentID]
	t.CurrentParticipants++
	t.PrizePool = t.PrizePool.Add(poolIncrease)
	tx.state.tournaments[tournamentID] = t
	return nil
}
