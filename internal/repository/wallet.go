package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/osse101/PrizeArena_Go/internal/domain"
)

// Wallet exposes read access to balances plus operator deposits.
type Wallet interface {
	// GetBalance returns a zero balance for players with no wallet row.
	GetBalance(ctx context.Context, playerID string) (*domain.WalletBalance, error)
	ListLedger(ctx context.Context, playerID string, limit int) ([]domain.LedgerEntry, error)
	Deposit(ctx context.Context, playerID string, amount decimal.Decimal, key string) (*domain.LedgerEntry, error)
}
