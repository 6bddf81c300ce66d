package payout

import "time"

const (
	JobNameDispatch       = "payout_dispatch"
	DefaultBatchSize      = 50
	DefaultMaxAttempts    = 8
	DefaultRetryBaseDelay = 5 * time.Second
	DefaultLease          = 2 * time.Minute
	TransferMemoFormat    = "prize for tournament %s"
)

const (
	ErrContextClaim          = "failed to claim payouts"
	ErrContextMarkDispatched = "failed to mark payout dispatched"
	ErrContextMarkRetry      = "failed to schedule payout retry"
	ErrContextMarkDead       = "failed to dead-letter payout"
)

const (
	LogMsgDispatched      = "Payout dispatched"
	LogMsgRetryScheduled  = "Payout failed, retry scheduled"
	LogMsgDeadLettered    = "Payout dead-lettered"
	LogMsgDeadLetterWrite = "Failed to write payout dead letter"
	LogMsgBatchCompleted  = "Payout batch completed"
	LogMsgCountPending    = "Failed to count pending payouts"
	LogMsgUpdateFailed    = "Failed to record payout result"
	LogMsgPublishFailed   = "Failed to publish payout event"
)
