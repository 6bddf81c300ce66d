package event

import "time"

// Event schema versioning
const (
	// EventSchemaVersion is the current event schema version
	EventSchemaVersion = "1.0"
)

// Retry configuration constants
const (
	// RetryQueueBufferSize is the buffer size for the retry queue
	RetryQueueBufferSize = 1000

	// RetryInitialDelaySeconds is the initial retry delay in seconds (2s)
	RetryInitialDelaySeconds = 2

	// RetryMaxAttempts is the default maximum number of retry attempts
	RetryMaxAttempts = 5

	// RetryMaxDelay caps the exponential backoff
	RetryMaxDelay = 10 * time.Minute
)

// Dead letter file configuration
const (
	DeadLetterFilePermissions = 0644
	DeadLetterDirPermissions  = 0755

	// MaxDeadLetterLineBytes bounds a single entry when reading a file back
	MaxDeadLetterLineBytes = 1 << 20

	ErrMsgOpenDeadLetter    = "failed to open dead-letter file"
	ErrMsgDecodePayload     = "failed to decode payload of"
	ErrMsgBadDeadLetterLine = "malformed dead-letter entry on line"
)

// Log message constants
const (
	// Log messages for event publishing
	LogMsgEventPublishFailed    = "Event publish failed, queuing for retry"
	LogMsgRetryQueueFull        = "Retry queue full, event dropped to dead-letter"
	LogMsgDeadLetterWriteFailed = "Failed to write to dead letter"
	LogMsgEventRetryExhausted   = "Event retry exhausted, writing to dead-letter"
	LogMsgEventRetryFailed      = "Event retry failed, scheduling next attempt"
	LogMsgEventRetrySucceeded   = "Event retry succeeded"
	LogMsgQueueDrainedShutdown  = "Drained retry queue during shutdown"
	LogMsgShutdownTimeout       = "Resilient publisher shutdown timed out"
	LogMsgEventDeadLettered     = "event_dead_lettered"

	// Log message for handler errors
	LogMsgHandlerErrorFormat = "encountered %d errors while handling event %s: %v"
)

// CalculateRetryDelay calculates the exponential backoff delay for retry attempts.
// Formula: baseDelay * 2^(attempt-1), capped at RetryMaxDelay.
func CalculateRetryDelay(baseDelay time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 30 {
		return RetryMaxDelay
	}
	delay := baseDelay * time.Duration(1<<(attempt-1))
	if delay > RetryMaxDelay || delay <= 0 {
		return RetryMaxDelay
	}
	return delay
}
