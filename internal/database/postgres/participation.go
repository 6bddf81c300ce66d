package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/osse101/PrizeArena_Go/internal/domain"
	"github.com/osse101/PrizeArena_Go/internal/repository"
)

// ParticipationRepository implements repository.Participation
type ParticipationRepository struct {
	db *pgxpool.Pool
}

var _ repository.Participation = (*ParticipationRepository)(nil)

// NewParticipationRepository creates a new participation repository
func NewParticipationRepository(db *pgxpool.Pool) *ParticipationRepository {
	return &ParticipationRepository{db: db}
}

func (r *ParticipationRepository) BeginParticipationTx(ctx context.Context) (repository.ParticipationTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	return &participationTx{txWrapper: txWrapper{tx: tx}, walletOps: walletOps{q: tx}}, nil
}

type participationTx struct {
	txWrapper
	walletOps
}

func (t *participationTx) GetTournamentForUpdate(ctx context.Context, id uuid.UUID) (*domain.Tournament, error) {
	return lockTournament(ctx, t.tx, id)
}

func (t *participationTx) GetTournamentForShare(ctx context.Context, id uuid.UUID) (*domain.Tournament, error) {
	return shareTournament(ctx, t.tx, id)
}

func (t *participationTx) GetParticipantForUpdate(ctx context.Context, tournamentID uuid.UUID, playerID string) (*domain.Participant, error) {
	p, err := scanParticipant(t.tx.QueryRow(ctx, `
		SELECT `+participantColumns+`
		FROM tournament_participants
		WHERE tournament_id = $1 AND player_id = $2
		FOR UPDATE`, tournamentID, playerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetParticipant, err)
	}
	return p, nil
}

func (t *participationTx) InsertParticipant(ctx context.Context, p *domain.Participant) error {
	return insertParticipant(ctx, t.tx, p)
}

func (t *participationTx) UpdateParticipantScore(ctx context.Context, p *domain.Participant) error {
	_, err := t.tx.Exec(ctx, `
		UPDATE tournament_participants
		SET best_score = GREATEST(best_score, $3),
		    attempts = $4,
		    last_attempt_at = $5,
		    display_name = $6
		WHERE tournament_id = $1 AND player_id = $2`,
		p.TournamentID, p.PlayerID, p.BestScore, p.Attempts, p.LastAttemptAt, p.DisplayName)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateParticipant, err)
	}
	return nil
}

func (t *participationTx) UpdateParticipantAutoRenew(ctx context.Context, tournamentID uuid.UUID, playerID string, autoRenew bool) error {
	_, err := t.tx.Exec(ctx, `
		UPDATE tournament_participants SET auto_renew = $3
		WHERE tournament_id = $1 AND player_id = $2`, tournamentID, playerID, autoRenew)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateParticipant, err)
	}
	return nil
}

func (t *participationTx) AddParticipant(ctx context.Context, tournamentID uuid.UUID, poolIncrease decimal.Decimal) error {
	return addParticipant(ctx, t.tx, tournamentID, poolIncrease)
}

func (t *participationTx) InsertAttempt(ctx context.Context, tournamentID uuid.UUID, playerID string, score int64, at time.Time) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO tournament_attempts (tournament_id, player_id, score, recorded_at)
		VALUES ($1, $2, $3, $4)`, tournamentID, playerID, score, at)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertAttempt, err)
	}
	return nil
}
