package participation

// Error context
const (
	ErrContextBegin       = "failed to begin participation transaction"
	ErrContextLoad        = "failed to load tournament"
	ErrContextParticipant = "failed to load participant"
	ErrContextEntryFee    = "failed to charge entry fee"
	ErrContextSave        = "failed to save participant"
	ErrContextAttempt     = "failed to record attempt"
	ErrContextCommit      = "failed to commit participation"
)

// Log messages
const (
	LogMsgAttemptRecorded = "Attempt recorded"
	LogMsgAttemptRejected = "Attempt rejected"
	LogMsgPlayerJoined    = "Player joined tournament"
	LogMsgPublishFailed   = "Failed to publish participation event"
)
