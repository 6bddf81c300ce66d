package settlement

import "time"

// Defaults
const (
	DefaultParallelism = 4
	DefaultTxTimeout   = 30 * time.Second
	JobNameSettlement  = "settlement_pass"
)

// Error context
const (
	ErrContextListCandidates = "failed to list expired tournaments"
	ErrContextBegin          = "failed to begin settlement transaction"
	ErrContextLock           = "failed to lock tournament"
	ErrContextRanking        = "failed to read ranking"
	ErrContextCredit         = "failed to credit prize"
	ErrContextReceipt        = "failed to record prize receipt"
	ErrContextPayout         = "failed to queue payout"
	ErrContextFinish         = "failed to mark tournament finished"
	ErrContextRenew          = "failed to renew tournament"
	ErrContextCommit         = "failed to commit settlement"
)

// Log messages
const (
	LogMsgPassStarted        = "Settlement pass started"
	LogMsgPassCompleted      = "Settlement pass completed"
	LogMsgTournamentSettled  = "Tournament settled"
	LogMsgSettlementFailed   = "Tournament settlement failed"
	LogMsgConcurrencyLost    = "Settlement lost to a concurrent runner"
	LogMsgAlreadySettling    = "Tournament already being settled in this process"
	LogMsgRenewalSkipped     = "Auto-renew participant skipped, insufficient funds"
	LogMsgTournamentRenewed  = "Tournament renewed"
	LogMsgPublishFailed      = "Failed to publish settlement event"
	LogMsgPassBackingOff     = "Settlement pass backing off after storage failure"
	LogMsgPassSkippedBackoff = "Settlement pass skipped during backoff"
)
