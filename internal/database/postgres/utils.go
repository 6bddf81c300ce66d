package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/osse101/PrizeArena_Go/internal/domain"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// txWrapper adapts pgx.Tx to repository.Tx
type txWrapper struct {
	tx pgx.Tx
}

func (w *txWrapper) Commit(ctx context.Context) error {
	return w.tx.Commit(ctx)
}

// Rollback reports an already finished transaction as domain.ErrTxClosed
func (w *txWrapper) Rollback(ctx context.Context) error {
	if err := w.tx.Rollback(ctx); err != nil {
		if errors.Is(err, pgx.ErrTxClosed) {
			return domain.ErrTxClosed
		}
		return err
	}
	return nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint violation
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == PgErrorCodeUniqueViolation
}

// numericToDecimal converts a scanned NUMERIC to a decimal without a float round trip
func numericToDecimal(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid {
		return decimal.Zero, nil
	}
	if n.NaN || n.InfinityModifier != pgtype.Finite {
		return decimal.Zero, fmt.Errorf("numeric value is not finite")
	}
	if n.Int == nil {
		return decimal.Zero, nil
	}
	return decimal.NewFromBigInt(n.Int, n.Exp), nil
}

// ptrTime converts a pgtype.Timestamptz to *time.Time.
// Returns nil if the timestamp is not valid.
func ptrTime(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

// ptrInt converts a pgtype.Int4 to *int.
// Returns nil if the int is not valid.
func ptrInt(i pgtype.Int4) *int {
	if !i.Valid {
		return nil
	}
	v := int(i.Int32)
	return &v
}

func textToPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// ---- Tournament scanning ----

const tournamentColumns = `
	id, name, description, entry_fee, prize_pool, base_prize_pool, platform_fee_percent,
	status, start_time, end_time, max_participants, current_participants,
	prize_distribution, auto_renew, renewed_from, created_at, updated_at`

func scanTournament(row pgx.Row) (*domain.Tournament, error) {
	var (
		t                                     domain.Tournament
		entryFee, pool, basePool, platformFee pgtype.Numeric
		maxParticipants                       pgtype.Int4
		distribution                          []byte
		status                                string
	)

	err := row.Scan(
		&t.ID, &t.Name, &t.Description, &entryFee, &pool, &basePool, &platformFee,
		&status, &t.StartTime, &t.EndTime, &maxParticipants, &t.CurrentParticipants,
		&distribution, &t.AutoRenew, &t.RenewedFrom, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Status = domain.TournamentStatus(status)
	t.MaxParticipants = ptrInt(maxParticipants)
	t.StartTime = t.StartTime.UTC()
	t.EndTime = t.EndTime.UTC()

	for _, f := range []struct {
		src pgtype.Numeric
		dst *decimal.Decimal
	}{
		{entryFee, &t.EntryFee},
		{pool, &t.PrizePool},
		{basePool, &t.BasePrizePool},
		{platformFee, &t.PlatformFeePercent},
	} {
		if *f.dst, err = numericToDecimal(f.src); err != nil {
			return nil, err
		}
	}

	if err := json.Unmarshal(distribution, &t.PrizeDistribution); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToUnmarshalDistrib, err)
	}

	return &t, nil
}

func collectTournaments(rows pgx.Rows) ([]domain.Tournament, error) {
	defer rows.Close()

	var out []domain.Tournament
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanTournament, err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// lockTournament reads a tournament row under FOR UPDATE. Returns nil, nil when absent.
func lockTournament(ctx context.Context, q querier, id any) (*domain.Tournament, error) {
	return readTournamentLocked(ctx, q, id, "FOR UPDATE")
}

// shareTournament reads a tournament row under FOR SHARE: concurrent readers
// proceed, writers such as settlement wait.
func shareTournament(ctx context.Context, q querier, id any) (*domain.Tournament, error) {
	return readTournamentLocked(ctx, q, id, "FOR SHARE")
}

func readTournamentLocked(ctx context.Context, q querier, id any, lockClause string) (*domain.Tournament, error) {
	t, err := scanTournament(q.QueryRow(ctx, `SELECT `+tournamentColumns+` FROM tournaments WHERE id = $1 `+lockClause, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToLockTournament, err)
	}
	return t, nil
}

func insertTournament(ctx context.Context, q querier, t *domain.Tournament) error {
	distribution, err := json.Marshal(t.PrizeDistribution)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMarshalDistrib, err)
	}

	_, err = q.Exec(ctx, `
		INSERT INTO tournaments (`+tournamentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		t.ID, t.Name, t.Description, t.EntryFee, t.PrizePool, t.BasePrizePool, t.PlatformFeePercent,
		string(t.Status), t.StartTime, t.EndTime, t.MaxParticipants, t.CurrentParticipants,
		distribution, t.AutoRenew, t.RenewedFrom, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertTournament, err)
	}
	return nil
}

func addParticipant(ctx context.Context, q querier, tournamentID any, poolIncrease decimal.Decimal) error {
	_, err := q.Exec(ctx, `
		UPDATE tournaments
		SET current_participants = current_participants + 1,
		    prize_pool = prize_pool + $2,
		    updated_at = NOW()
		WHERE id = $1`, tournamentID, poolIncrease)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToAddParticipant, err)
	}
	return nil
}

// ---- Participant scanning ----

const participantColumns = `
	tournament_id, player_id, display_name, best_score, attempts, paid_entry,
	auto_renew, joined_at, last_attempt_at`

func scanParticipant(row pgx.Row) (*domain.Participant, error) {
	var (
		p           domain.Participant
		lastAttempt pgtype.Timestamptz
	)
	err := row.Scan(
		&p.TournamentID, &p.PlayerID, &p.DisplayName, &p.BestScore, &p.Attempts, &p.PaidEntry,
		&p.AutoRenew, &p.JoinedAt, &lastAttempt,
	)
	if err != nil {
		return nil, err
	}
	p.JoinedAt = p.JoinedAt.UTC()
	p.LastAttemptAt = ptrTime(lastAttempt)
	return &p, nil
}

func collectParticipants(rows pgx.Rows) ([]domain.Participant, error) {
	defer rows.Close()

	var out []domain.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanParticipant, err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func insertParticipant(ctx context.Context, q querier, p *domain.Participant) error {
	_, err := q.Exec(ctx, `
		INSERT INTO tournament_participants (`+participantColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.TournamentID, p.PlayerID, p.DisplayName, p.BestScore, p.Attempts, p.PaidEntry,
		p.AutoRenew, p.JoinedAt, p.LastAttemptAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertParticipant, err)
	}
	return nil
}
