package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
)

// Limits
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)

// Error Messages - Tournament Operations
const (
	ErrMsgFailedToInsertTournament   = "failed to insert tournament"
	ErrMsgFailedToGetTournament      = "failed to get tournament"
	ErrMsgFailedToListTournaments    = "failed to list tournaments"
	ErrMsgFailedToLockTournament     = "failed to lock tournament"
	ErrMsgFailedToActivate           = "failed to activate started tournaments"
	ErrMsgFailedToMarkFinished       = "failed to mark tournament finished"
	ErrMsgFailedToAddParticipant     = "failed to update participant count"
	ErrMsgFailedToMarshalDistrib     = "failed to marshal prize distribution"
	ErrMsgFailedToUnmarshalDistrib   = "failed to unmarshal prize distribution"
	ErrMsgFailedToScanTournament     = "failed to scan tournament"
	ErrMsgFailedToGetLeaderboard     = "failed to get leaderboard"
	ErrMsgFailedToGetTopParticipants = "failed to get top participants"
)

// Error Messages - Participant Operations
const (
	ErrMsgFailedToGetParticipant       = "failed to get participant"
	ErrMsgFailedToInsertParticipant    = "failed to insert participant"
	ErrMsgFailedToUpdateParticipant    = "failed to update participant"
	ErrMsgFailedToInsertAttempt        = "failed to insert attempt"
	ErrMsgFailedToScanParticipant      = "failed to scan participant"
	ErrMsgFailedToGetRenewParticipants = "failed to get auto-renew participants"
)

// Error Messages - Receipt and Payout Operations
const (
	ErrMsgFailedToInsertReceipt = "failed to insert prize receipt"
	ErrMsgFailedToGetReceipts   = "failed to get prize receipts"
	ErrMsgFailedToInsertPayout  = "failed to insert payout event"
	ErrMsgFailedToClaimPayouts  = "failed to claim payout events"
	ErrMsgFailedToUpdatePayout  = "failed to update payout event"
	ErrMsgFailedToCountPayouts  = "failed to count pending payouts"
	ErrMsgFailedToListPayouts   = "failed to list payout events"
	ErrMsgFailedToRefundPayout  = "failed to refund dead payout"
)

// Error Messages - Wallet Operations
const (
	ErrMsgFailedToInsertLedger  = "failed to insert ledger entry"
	ErrMsgFailedToGetLedger     = "failed to get ledger entry"
	ErrMsgFailedToUpdateBalance = "failed to update wallet balance"
	ErrMsgFailedToGetBalance    = "failed to get wallet balance"
)

// Error Messages - Event Log Operations
const (
	ErrMsgFailedToMarshalPayload = "failed to marshal event payload"
	ErrMsgFailedToInsertEvent    = "failed to insert event"
	ErrMsgFailedToQueryEvents    = "failed to query events"
	ErrMsgFailedToCleanupEvents  = "failed to cleanup events"
)
