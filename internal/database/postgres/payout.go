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

	"github.com/osse101/PrizeArena_Go/internal/domain"
	"github.com/osse101/PrizeArena_Go/internal/repository"
)

const payoutColumns = `
	id, receipt_id, tournament_id, player_id, amount, status, attempts,
	next_attempt_at, last_error, external_ref, created_at, updated_at`

// PayoutRepository implements repository.Payout
type PayoutRepository struct {
	db *pgxpool.Pool
}

var _ repository.Payout = (*PayoutRepository)(nil)

// NewPayoutRepository creates a new payout outbox repository
func NewPayoutRepository(db *pgxpool.Pool) *PayoutRepository {
	return &PayoutRepository{db: db}
}

func (r *PayoutRepository) ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]domain.PayoutEvent, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE payout_events
		SET next_attempt_at = $2, updated_at = NOW()
		WHERE id IN (
			SELECT id FROM payout_events
			WHERE status = 'pending' AND next_attempt_at <= $1
			ORDER BY next_attempt_at
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING `+payoutColumns,
		now, now.Add(lease), clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToClaimPayouts, err)
	}
	return collectPayouts(rows)
}

func (r *PayoutRepository) MarkDispatched(ctx context.Context, id uuid.UUID, externalRef string, at time.Time) error {
	return r.update(ctx, `
		UPDATE payout_events
		SET status = 'dispatched', external_ref = $2, attempts = attempts + 1,
		    last_error = NULL, updated_at = $3
		WHERE id = $1 AND status = 'pending'`, id, externalRef, at)
}

func (r *PayoutRepository) MarkRetry(ctx context.Context, id uuid.UUID, attempts int, nextAttemptAt time.Time, lastError string) error {
	return r.update(ctx, `
		UPDATE payout_events
		SET attempts = $2, next_attempt_at = $3, last_error = $4, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'`, id, attempts, nextAttemptAt, lastError)
}

// MarkDead dead-letters a payout and returns its amount to the player's
// wallet in the same transaction.
func (r *PayoutRepository) MarkDead(ctx context.Context, id uuid.UUID, attempts int, lastError string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	wrapped := &txWrapper{tx: tx}
	defer repository.SafeRollback(ctx, wrapped)

	var (
		playerID string
		amount   pgtype.Numeric
	)
	err = tx.QueryRow(ctx, `
		UPDATE payout_events
		SET status = 'dead', attempts = $2, last_error = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING player_id, amount`, id, attempts, lastError).Scan(&playerID, &amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrPayoutNotFound
	}
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdatePayout, err)
	}

	refund, err := numericToDecimal(amount)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdatePayout, err)
	}
	if _, _, err := (walletOps{q: tx}).CreditWallet(ctx, playerID, refund, domain.PayoutRefundKey(id), domain.LedgerReasonPayoutRefund); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToRefundPayout, err)
	}

	if err := wrapped.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}

func (r *PayoutRepository) update(ctx context.Context, sql string, args ...any) error {
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdatePayout, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPayoutNotFound
	}
	return nil
}

func (r *PayoutRepository) CountPending(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM payout_events WHERE status = 'pending'`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToCountPayouts, err)
	}
	return n, nil
}

func (r *PayoutRepository) ListByTournament(ctx context.Context, tournamentID uuid.UUID) ([]domain.PayoutEvent, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+payoutColumns+`
		FROM payout_events
		WHERE tournament_id = $1
		ORDER BY created_at, id`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListPayouts, err)
	}
	return collectPayouts(rows)
}

func scanPayout(row pgx.Row) (*domain.PayoutEvent, error) {
	var (
		e               domain.PayoutEvent
		amount          pgtype.Numeric
		status          string
		lastErr, extRef pgtype.Text
	)
	err := row.Scan(
		&e.ID, &e.ReceiptID, &e.TournamentID, &e.PlayerID, &amount, &status, &e.Attempts,
		&e.NextAttemptAt, &lastErr, &extRef, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if e.Amount, err = numericToDecimal(amount); err != nil {
		return nil, err
	}
	e.Status = domain.PayoutStatus(status)
	e.LastError = textToPtr(lastErr)
	e.ExternalRef = textToPtr(extRef)
	return &e, nil
}

func collectPayouts(rows pgx.Rows) ([]domain.PayoutEvent, error) {
	defer rows.Close()

	out := []domain.PayoutEvent{}
	for rows.Next() {
		e, err := scanPayout(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListPayouts, err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}
