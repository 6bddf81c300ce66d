package eventlog

// PayloadKeyTournamentID is copied from the payload into the indexed tournament_id column
const PayloadKeyTournamentID = "tournament_id"

const (
	LogMsgEventPayloadNotMap  = "Event payload is not an object, skipping audit record"
	LogMsgFailedToLogEvent    = "Failed to append audit record"
	LogMsgEventLogged         = "Audit record appended"
	LogMsgCleanupJobFailed    = "Audit log purge failed"
	LogMsgCleanupJobCompleted = "Audit log purged"
)

const (
	LogFieldType         = "type"
	LogFieldTournamentID = "tournament_id"
	LogFieldError        = "error"
	LogFieldRetention    = "retention"
	LogFieldDuration     = "duration"
	LogFieldDeletedCount = "deleted"
)

// JobNameCleanup identifies the purge job in worker logs
const JobNameCleanup = "eventlog_purge"
