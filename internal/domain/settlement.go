package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PrizeReceipt records a prize paid to a finishing place. It is never altered once paid.
type PrizeReceipt struct {
	ID           uuid.UUID       `json:"id"`
	TournamentID uuid.UUID       `json:"tournament_id"`
	PlayerID     string          `json:"player_id"`
	DisplayName  string          `json:"display_name"`
	Place        int             `json:"place"`
	Amount       decimal.Decimal `json:"amount"`
	Paid         bool            `json:"paid"`
	PaidAt       *time.Time      `json:"paid_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// SettlementStatus is the result of settling one tournament.
type SettlementStatus string

const (
	SettlementStatusSettled SettlementStatus = "settled"
	SettlementStatusNoop    SettlementStatus = "noop"
	SettlementStatusFailed  SettlementStatus = "failed"
)

// SettlementOutcome reports what a settlement pass did with one tournament.
type SettlementOutcome struct {
	TournamentID uuid.UUID        `json:"tournament_id"`
	Status       SettlementStatus `json:"status"`
	Receipts     int              `json:"receipts"`
	TotalPaid    decimal.Decimal  `json:"total_paid"`
	RenewedAs    *uuid.UUID       `json:"renewed_as,omitempty"`
	Error        string           `json:"error,omitempty"`
	Err          error            `json:"-"`
}

// NewFailedOutcome wraps err into a failed outcome.
func NewFailedOutcome(tournamentID uuid.UUID, err error) SettlementOutcome {
	return SettlementOutcome{
		TournamentID: tournamentID,
		Status:       SettlementStatusFailed,
		Error:        err.Error(),
		Err:          err,
	}
}

// NewNoopOutcome is returned when another runner already settled the tournament.
func NewNoopOutcome(tournamentID uuid.UUID) SettlementOutcome {
	return SettlementOutcome{
		TournamentID: tournamentID,
		Status:       SettlementStatusNoop,
	}
}
