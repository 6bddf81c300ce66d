package payment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/osse101/PrizeArena_Go/internal/domain"
)

// SimulatedGateway settles transfers in memory. It is the default in local
// and test environments.
type SimulatedGateway struct {
	mu        sync.Mutex
	balances  map[string]decimal.Decimal
	transfers map[string]TransferReceipt
	failNext  int
	now       func() time.Time
}

// NewSimulatedGateway creates an empty simulated network
func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{
		balances:  make(map[string]decimal.Decimal),
		transfers: make(map[string]TransferReceipt),
		now:       time.Now,
	}
}

// FailNext makes the next n SendFunds calls fail with ErrTransient.
func (g *SimulatedGateway) FailNext(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failNext = n
}

func (g *SimulatedGateway) SendFunds(ctx context.Context, t Transfer) (TransferReceipt, error) {
	if err := ctx.Err(); err != nil {
		return TransferReceipt{}, err
	}
	if !t.Amount.IsPositive() {
		return TransferReceipt{}, fmt.Errorf("%w: amount must be positive", domain.ErrPaymentRejected)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, ok := g.transfers[t.Reference]; ok {
		return existing, nil
	}
	if g.failNext > 0 {
		g.failNext--
		return TransferReceipt{}, fmt.Errorf("%w: simulated outage", domain.ErrTransient)
	}

	receipt := TransferReceipt{
		Reference:   t.Reference,
		ExternalRef: SimulatedRefPrefix + uuid.NewString(),
		Status:      TransferStatusCompleted,
		Amount:      t.Amount,
		ProcessedAt: g.now().UTC(),
	}
	g.transfers[t.Reference] = receipt
	g.balances[t.PlayerID] = g.balances[t.PlayerID].Add(t.Amount)
	return receipt, nil
}

func (g *SimulatedGateway) GetBalance(_ context.Context, playerID string) (decimal.Decimal, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.balances[playerID], nil
}

func (g *SimulatedGateway) CheckStatus(_ context.Context, reference string) (TransferStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if r, ok := g.transfers[reference]; ok {
		return r.Status, nil
	}
	return TransferStatusUnknown, nil
}
