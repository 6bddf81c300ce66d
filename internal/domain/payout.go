package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayoutStatus tracks delivery of a prize to the external payment network.
type PayoutStatus string

const (
	PayoutStatusPending    PayoutStatus = "pending"
	PayoutStatusDispatched PayoutStatus = "dispatched"
	PayoutStatusDead       PayoutStatus = "dead"
)

// PayoutEvent is an outbox record written alongside a prize receipt and
// drained by the payout worker.
type PayoutEvent struct {
	ID            uuid.UUID       `json:"id"`
	ReceiptID     uuid.UUID       `json:"receipt_id"`
	TournamentID  uuid.UUID       `json:"tournament_id"`
	PlayerID      string          `json:"player_id"`
	Amount        decimal.Decimal `json:"amount"`
	Status        PayoutStatus    `json:"status"`
	Attempts      int             `json:"attempts"`
	NextAttemptAt time.Time       `json:"next_attempt_at"`
	LastError     *string         `json:"last_error,omitempty"`
	ExternalRef   *string         `json:"external_ref,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewPayoutEvent builds a pending outbox record for receipt.
func NewPayoutEvent(receipt *PrizeReceipt, now time.Time) *PayoutEvent {
	return &PayoutEvent{
		ID:            uuid.New(),
		ReceiptID:     receipt.ID,
		TournamentID:  receipt.TournamentID,
		PlayerID:      receipt.PlayerID,
		Amount:        receipt.Amount,
		Status:        PayoutStatusPending,
		NextAttemptAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
