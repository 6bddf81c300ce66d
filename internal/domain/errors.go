package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Validation errors
	ErrMsgValidation = "validation failed"

	// Tournament errors
	ErrMsgTournamentNotFound   = "tournament not found"
	ErrMsgTournamentClosed     = "tournament is closed"
	ErrMsgTournamentNotStarted = "tournament has not started"
	ErrMsgCapacityExceeded     = "tournament is full"

	// Participation errors
	ErrMsgInvalidScore        = "score must not be negative"
	ErrMsgParticipantNotFound = "participant not found"

	// Wallet errors
	ErrMsgInsufficientFunds = "insufficient funds"
	ErrMsgInvalidAmount     = "amount must be positive"

	// Settlement errors
	ErrMsgConcurrencyLost  = "settlement lost to a concurrent runner"
	ErrMsgDuplicateReceipt = "prize receipt already exists"
	ErrMsgUnknownPreset    = "unknown distribution preset"
	ErrMsgPayoutNotFound   = "payout event not found"
	ErrMsgTransientFailure = "transient failure"
	ErrMsgPaymentRejected  = "payment rejected"
	ErrMsgTransferNotFound = "transfer not found"
	ErrMsgGatewayMisconfig = "payment gateway misconfigured"

	ErrMsgTxClosed = "tx is closed"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrValidation = errors.New(ErrMsgValidation)

	ErrTournamentNotFound   = errors.New(ErrMsgTournamentNotFound)
	ErrTournamentClosed     = errors.New(ErrMsgTournamentClosed)
	ErrTournamentNotStarted = errors.New(ErrMsgTournamentNotStarted)
	ErrCapacityExceeded     = errors.New(ErrMsgCapacityExceeded)

	ErrInvalidScore        = errors.New(ErrMsgInvalidScore)
	ErrParticipantNotFound = errors.New(ErrMsgParticipantNotFound)

	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)
	ErrInvalidAmount     = errors.New(ErrMsgInvalidAmount)

	ErrConcurrencyLost  = errors.New(ErrMsgConcurrencyLost)
	ErrDuplicateReceipt = errors.New(ErrMsgDuplicateReceipt)
	ErrUnknownPreset    = errors.New(ErrMsgUnknownPreset)
	ErrPayoutNotFound   = errors.New(ErrMsgPayoutNotFound)

	// ErrTransient marks failures that are expected to succeed on a later attempt.
	ErrTransient        = errors.New(ErrMsgTransientFailure)
	ErrPaymentRejected  = errors.New(ErrMsgPaymentRejected)
	ErrTransferNotFound = errors.New(ErrMsgTransferNotFound)
	ErrGatewayMisconfig = errors.New(ErrMsgGatewayMisconfig)

	// ErrTxClosed is returned by Rollback after the transaction already committed.
	ErrTxClosed = errors.New(ErrMsgTxClosed)
)
