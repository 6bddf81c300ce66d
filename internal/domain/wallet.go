package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerReason classifies a wallet movement.
type LedgerReason string

const (
	LedgerReasonPrize        LedgerReason = "prize"
	LedgerReasonEntryFee     LedgerReason = "entry_fee"
	LedgerReasonDeposit      LedgerReason = "deposit"
	LedgerReasonWithdrawal   LedgerReason = "payout_withdrawal"
	LedgerReasonPayoutRefund LedgerReason = "payout_refund"
)

// WalletBalance is a player's current balance.
type WalletBalance struct {
	PlayerID  string          `json:"player_id"`
	Balance   decimal.Decimal `json:"balance"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// LedgerEntry is one signed movement on a wallet. IdempotencyKey is unique,
// so replaying a movement with the same key never applies it twice.
type LedgerEntry struct {
	ID             uuid.UUID       `json:"id"`
	PlayerID       string          `json:"player_id"`
	Amount         decimal.Decimal `json:"amount"`
	Reason         LedgerReason    `json:"reason"`
	IdempotencyKey string          `json:"idempotency_key"`
	CreatedAt      time.Time       `json:"created_at"`
}

// EntryFeeKey is the idempotency key for a player's entry fee debit.
func EntryFeeKey(tournamentID uuid.UUID, playerID string) string {
	return fmt.Sprintf("entry:%s:%s", tournamentID, playerID)
}

// PrizeKey is the idempotency key for crediting a prize receipt.
func PrizeKey(receiptID uuid.UUID) string {
	return "prize:" + receiptID.String()
}

// PayoutKey is the idempotency key for the debit that moves a prize from the
// wallet onto the external payout rail.
func PayoutKey(eventID uuid.UUID) string {
	return "payout:" + eventID.String()
}

// PayoutRefundKey is the idempotency key for returning an undeliverable
// payout to the wallet.
func PayoutRefundKey(eventID uuid.UUID) string {
	return "payout_refund:" + eventID.String()
}
