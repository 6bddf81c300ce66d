package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/osse101/PrizeArena_Go/internal/domain"
)

// Tx defines the interface for transactional operations
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// WalletTx moves money inside an open transaction so wallet changes commit or
// roll back together with the work that caused them.
type WalletTx interface {
	// CreditWallet adds amount to the player's balance. A repeated key returns the
	// original entry and created=false without changing the balance.
	CreditWallet(ctx context.Context, playerID string, amount decimal.Decimal, key string, reason domain.LedgerReason) (entry *domain.LedgerEntry, created bool, err error)

	// DebitWallet removes amount from the player's balance and fails with
	// domain.ErrInsufficientFunds when the balance is too low.
	DebitWallet(ctx context.Context, playerID string, amount decimal.Decimal, key string, reason domain.LedgerReason) (entry *domain.LedgerEntry, created bool, err error)
}
