package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/osse101/PrizeArena_Go/internal/domain"
	"github.com/osse101/PrizeArena_Go/internal/repository"
)

// walletOps applies ledger movements through q so they share the caller's transaction
type walletOps struct {
	q querier
}

func (w walletOps) CreditWallet(ctx context.Context, playerID string, amount decimal.Decimal, key string, reason domain.LedgerReason) (*domain.LedgerEntry, bool, error) {
	if !amount.IsPositive() {
		return nil, false, domain.ErrInvalidAmount
	}

	entry := &domain.LedgerEntry{
		ID:             uuid.New(),
		PlayerID:       playerID,
		Amount:         amount,
		Reason:         reason,
		IdempotencyKey: key,
	}

	err := w.q.QueryRow(ctx, `
		INSERT INTO wallet_ledger (id, player_id, amount, reason, idempotency_key)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (idempotency_key) DO NOTHING
		RETURNING created_at`,
		entry.ID, playerID, amount, string(reason), key).Scan(&entry.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		existing, err := w.ledgerByKey(ctx, key)
		return existing, false, err
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", ErrMsgFailedToInsertLedger, err)
	}

	_, err = w.q.Exec(ctx, `
		INSERT INTO wallet_balances (player_id, balance, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (player_id) DO UPDATE
		SET balance = wallet_balances.balance + EXCLUDED.balance, updated_at = NOW()`,
		playerID, amount)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", ErrMsgFailedToUpdateBalance, err)
	}

	return entry, true, nil
}

// DebitWallet leaves no rows behind when the balance is insufficient, so the
// enclosing transaction stays usable.
func (w walletOps) DebitWallet(ctx context.Context, playerID string, amount decimal.Decimal, key string, reason domain.LedgerReason) (*domain.LedgerEntry, bool, error) {
	if !amount.IsPositive() {
		return nil, false, domain.ErrInvalidAmount
	}

	existing, err := w.ledgerByKey(ctx, key)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	tag, err := w.q.Exec(ctx, `
		UPDATE wallet_balances
		SET balance = balance - $2, updated_at = NOW()
		WHERE player_id = $1 AND balance >= $2`, playerID, amount)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", ErrMsgFailedToUpdateBalance, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, false, domain.ErrInsufficientFunds
	}

	entry := &domain.LedgerEntry{
		ID:             uuid.New(),
		PlayerID:       playerID,
		Amount:         amount.Neg(),
		Reason:         reason,
		IdempotencyKey: key,
	}
	err = w.q.QueryRow(ctx, `
		INSERT INTO wallet_ledger (id, player_id, amount, reason, idempotency_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		entry.ID, playerID, entry.Amount, string(reason), key).Scan(&entry.CreatedAt)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", ErrMsgFailedToInsertLedger, err)
	}

	return entry, true, nil
}

// ledgerByKey returns pgx.ErrNoRows unwrapped when the key is unused
func (w walletOps) ledgerByKey(ctx context.Context, key string) (*domain.LedgerEntry, error) {
	entry, err := scanLedgerEntry(w.q.QueryRow(ctx, `
		SELECT id, player_id, amount, reason, idempotency_key, created_at
		FROM wallet_ledger WHERE idempotency_key = $1`, key))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetLedger, err)
	}
	return entry, nil
}

func scanLedgerEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var (
		e      domain.LedgerEntry
		amount pgtype.Numeric
		reason string
	)
	if err := row.Scan(&e.ID, &e.PlayerID, &amount, &reason, &e.IdempotencyKey, &e.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if e.Amount, err = numericToDecimal(amount); err != nil {
		return nil, err
	}
	e.Reason = domain.LedgerReason(reason)
	return &e, nil
}

// WalletRepository implements repository.Wallet
type WalletRepository struct {
	db *pgxpool.Pool
}

var _ repository.Wallet = (*WalletRepository)(nil)

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) GetBalance(ctx context.Context, playerID string) (*domain.WalletBalance, error) {
	var (
		balance   pgtype.Numeric
		updatedAt time.Time
	)
	err := r.db.QueryRow(ctx, `SELECT balance, updated_at FROM wallet_balances WHERE player_id = $1`, playerID).
		Scan(&balance, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return &domain.WalletBalance{PlayerID: playerID, Balance: decimal.Zero}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetBalance, err)
	}

	amount, err := numericToDecimal(balance)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetBalance, err)
	}
	return &domain.WalletBalance{PlayerID: playerID, Balance: amount, UpdatedAt: updatedAt.UTC()}, nil
}

func (r *WalletRepository) ListLedger(ctx context.Context, playerID string, limit int) ([]domain.LedgerEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, player_id, amount, reason, idempotency_key, created_at
		FROM wallet_ledger
		WHERE player_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2`, playerID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetLedger, err)
	}
	defer rows.Close()

	entries := []domain.LedgerEntry{}
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetLedger, err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Deposit credits a wallet outside any tournament flow, e.g. operator top-ups.
func (r *WalletRepository) Deposit(ctx context.Context, playerID string, amount decimal.Decimal, key string) (*domain.LedgerEntry, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	wrapped := &txWrapper{tx: tx}
	defer repository.SafeRollback(ctx, wrapped)

	entry, _, err := walletOps{q: tx}.CreditWallet(ctx, playerID, amount, key, domain.LedgerReasonDeposit)
	if err != nil {
		return nil, err
	}

	if err := wrapped.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return entry, nil
}
