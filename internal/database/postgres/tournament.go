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

// TournamentRepository implements repository.Tournament
type TournamentRepository struct {
	db *pgxpool.Pool
}

var _ repository.Tournament = (*TournamentRepository)(nil)

// NewTournamentRepository creates a new tournament repository
func NewTournamentRepository(db *pgxpool.Pool) *TournamentRepository {
	return &TournamentRepository{db: db}
}

func (r *TournamentRepository) CreateTournament(ctx context.Context, t *domain.Tournament) error {
	return insertTournament(ctx, r.db, t)
}

func (r *TournamentRepository) GetTournament(ctx context.Context, id uuid.UUID) (*domain.Tournament, error) {
	t, err := scanTournament(r.db.QueryRow(ctx, `SELECT `+tournamentColumns+` FROM tournaments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetTournament, err)
	}
	return t, nil
}

func (r *TournamentRepository) ListTournaments(ctx context.Context, status *domain.TournamentStatus, limit int) ([]domain.Tournament, error) {
	var statusArg *string
	if status != nil {
		s := string(*status)
		statusArg = &s
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+tournamentColumns+`
		FROM tournaments
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC, id
		LIMIT $2`, statusArg, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListTournaments, err)
	}
	return collectTournaments(rows)
}

func (r *TournamentRepository) ListExpiredUnsettled(ctx context.Context, now time.Time) ([]domain.Tournament, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+tournamentColumns+`
		FROM tournaments
		WHERE status IN ('upcoming', 'active') AND end_time < $1
		ORDER BY end_time ASC, id`, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListTournaments, err)
	}
	return collectTournaments(rows)
}

func (r *TournamentRepository) ActivateStarted(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE tournaments
		SET status = 'active', updated_at = NOW()
		WHERE status = 'upcoming' AND start_time <= $1 AND end_time >= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToActivate, err)
	}
	return tag.RowsAffected(), nil
}

func (r *TournamentRepository) GetLeaderboard(ctx context.Context, id uuid.UUID, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT player_id, display_name, best_score, joined_at
		FROM tournament_participants
		WHERE tournament_id = $1
		ORDER BY best_score DESC, joined_at ASC, player_id ASC
		LIMIT $2`, id, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetLeaderboard, err)
	}
	defer rows.Close()

	entries := []domain.LeaderboardEntry{}
	for rows.Next() {
		e := domain.LeaderboardEntry{Rank: len(entries) + 1}
		if err := rows.Scan(&e.PlayerID, &e.DisplayName, &e.BestScore, &e.JoinedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetLeaderboard, err)
		}
		e.JoinedAt = e.JoinedAt.UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *TournamentRepository) GetReceipts(ctx context.Context, id uuid.UUID) ([]domain.PrizeReceipt, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, tournament_id, player_id, display_name, place, amount, paid, paid_at, created_at
		FROM prize_receipts
		WHERE tournament_id = $1
		ORDER BY place ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetReceipts, err)
	}
	defer rows.Close()

	receipts := []domain.PrizeReceipt{}
	for rows.Next() {
		var (
			rc     domain.PrizeReceipt
			amount pgtype.Numeric
			paidAt pgtype.Timestamptz
		)
		if err := rows.Scan(&rc.ID, &rc.TournamentID, &rc.PlayerID, &rc.DisplayName, &rc.Place,
			&amount, &rc.Paid, &paidAt, &rc.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetReceipts, err)
		}
		if rc.Amount, err = numericToDecimal(amount); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetReceipts, err)
		}
		rc.PaidAt = ptrTime(paidAt)
		receipts = append(receipts, rc)
	}
	return receipts, rows.Err()
}
