package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/osse101/PrizeArena_Go/internal/domain"
	"github.com/osse101/PrizeArena_Go/internal/repository"
)

// SettlementRepository implements repository.Settlement
type SettlementRepository struct {
	db *pgxpool.Pool
}

var _ repository.Settlement = (*SettlementRepository)(nil)

// NewSettlementRepository creates a new settlement repository
func NewSettlementRepository(db *pgxpool.Pool) *SettlementRepository {
	return &SettlementRepository{db: db}
}

func (r *SettlementRepository) BeginSettlementTx(ctx context.Context) (repository.SettlementTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	return &settlementTx{txWrapper: txWrapper{tx: tx}, walletOps: walletOps{q: tx}}, nil
}

type settlementTx struct {
	txWrapper
	walletOps
}

func (t *settlementTx) LockTournament(ctx context.Context, id uuid.UUID) (*domain.Tournament, error) {
	return lockTournament(ctx, t.tx, id)
}

func (t *settlementTx) GetTopParticipants(ctx context.Context, id uuid.UUID, n int) ([]domain.Participant, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT `+participantColumns+`
		FROM tournament_participants
		WHERE tournament_id = $1
		ORDER BY best_score DESC, joined_at ASC, player_id ASC
		LIMIT $2`, id, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetTopParticipants, err)
	}
	return collectParticipants(rows)
}

func (t *settlementTx) InsertPrizeReceipt(ctx context.Context, rc *domain.PrizeReceipt) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO prize_receipts (id, tournament_id, player_id, display_name, place, amount, paid, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rc.ID, rc.TournamentID, rc.PlayerID, rc.DisplayName, rc.Place, rc.Amount, rc.Paid, rc.PaidAt, rc.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: place %d", domain.ErrDuplicateReceipt, rc.Place)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertReceipt, err)
	}
	return nil
}

func (t *settlementTx) InsertPayoutEvent(ctx context.Context, e *domain.PayoutEvent) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO payout_events (id, receipt_id, tournament_id, player_id, amount, status, attempts, next_attempt_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.ReceiptID, e.TournamentID, e.PlayerID, e.Amount, string(e.Status), e.Attempts,
		e.NextAttemptAt, e.CreatedAt, e.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: payout for receipt %s", domain.ErrDuplicateReceipt, e.ReceiptID)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertPayout, err)
	}
	return nil
}

func (t *settlementTx) MarkFinished(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := t.tx.Exec(ctx, `
		UPDATE tournaments
		SET status = 'finished', updated_at = NOW()
		WHERE id = $1 AND status IN ('upcoming', 'active')`, id)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToMarkFinished, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (t *settlementTx) CreateTournament(ctx context.Context, tour *domain.Tournament) error {
	return insertTournament(ctx, t.tx, tour)
}

func (t *settlementTx) GetAutoRenewParticipants(ctx context.Context, id uuid.UUID) ([]domain.Participant, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT `+participantColumns+`
		FROM tournament_participants
		WHERE tournament_id = $1 AND auto_renew
		ORDER BY joined_at ASC, player_id ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetRenewParticipants, err)
	}
	return collectParticipants(rows)
}

func (t *settlementTx) InsertParticipant(ctx context.Context, p *domain.Participant) error {
	return insertParticipant(ctx, t.tx, p)
}

func (t *settlementTx) AddParticipant(ctx context.Context, tournamentID uuid.UUID, poolIncrease decimal.Decimal) error {
	return addParticipant(ctx, t.tx, tournamentID, poolIncrease)
}
