package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgInvalidTournamentID   = "Invalid tournament id"
	ErrMsgInvalidPlayerID       = "Invalid player id"
	ErrMsgInvalidLimit          = "Invalid limit parameter"
	ErrMsgInvalidStatus         = "Invalid status parameter"
	ErrMsgInvalidAmount         = "Invalid amount"
)

// User-facing messages derived from domain errors
const (
	ErrMsgGenericServerError    = "Something went wrong"
	ErrMsgUnknownError          = "Unknown error"
	ErrMsgValidationFailed      = "Invalid request. Please check your inputs."
	ErrMsgTournamentNotFound    = "Tournament not found"
	ErrMsgTournamentClosed      = "Tournament is closed"
	ErrMsgTournamentNotStarted  = "Tournament has not started yet"
	ErrMsgTournamentFull        = "Tournament is full"
	ErrMsgInsufficientFunds     = "Not enough funds to pay the entry fee"
	ErrMsgInvalidScore          = "Score must not be negative"
	ErrMsgUnknownPreset         = "Unknown prize distribution preset"
	ErrMsgSettlementUnavailable = "Settlement pass could not run. Please try again."
)

// Log messages
const (
	LogMsgRequestFailed     = "Request failed"
	LogMsgEncodeFailed      = "Failed to encode JSON response"
	LogMsgWriteFailed       = "Failed to write response buffer"
	LogMsgReadinessFailed   = "Readiness check failed"
	LogMsgSettlementTrigger = "Settlement pass triggered by operator"
)

// Health statuses
const (
	HealthStatusOK          = "ok"
	HealthStatusUnavailable = "unavailable"
)

// Readiness dependency names
const (
	DependencyDatabase = "database"
	DependencyRedis    = "redis"
)

// DefaultVersion is reported when neither ldflags nor build info carry one.
const DefaultVersion = "dev"
