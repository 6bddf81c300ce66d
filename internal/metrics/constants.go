package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Tournament metric names
const (
	MetricNameSettlementOutcomes  = "settlement_outcomes_total"
	MetricNameSettlementDuration  = "settlement_duration_seconds"
	MetricNamePrizesPaid          = "prizes_paid_total"
	MetricNamePrizeAmountPaid     = "prize_amount_paid_total"
	MetricNameAttemptsRecorded    = "attempts_recorded_total"
	MetricNameTournamentsCreated  = "tournaments_created_total"
	MetricNameTournamentsRenewed  = "tournaments_renewed_total"
	MetricNameParticipantsJoined  = "participants_joined_total"
	MetricNamePayoutDispatches    = "payout_dispatches_total"
	MetricNamePayoutPending       = "payout_outbox_pending"
	MetricNameLeaderboardCacheHit = "leaderboard_cache_lookups_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Tournament metric help text
const (
	HelpTextSettlementOutcomes  = "Tournament settlement outcomes by status"
	HelpTextSettlementDuration  = "Time spent settling a single tournament in seconds"
	HelpTextPrizesPaid          = "Total number of prize receipts written"
	HelpTextPrizeAmountPaid     = "Total prize money credited to wallets"
	HelpTextAttemptsRecorded    = "Score attempts by result"
	HelpTextTournamentsCreated  = "Tournaments created, including renewals"
	HelpTextTournamentsRenewed  = "Tournaments created by renewal"
	HelpTextParticipantsJoined  = "Players that joined a tournament"
	HelpTextPayoutDispatches    = "Payout dispatch attempts by result"
	HelpTextPayoutPending       = "Payout events waiting in the outbox"
	HelpTextLeaderboardCacheHit = "Leaderboard cache lookups by tier and result"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelType   = "type"
	LabelResult = "result"
	LabelTier   = "tier"
)

// Label values
const (
	ResultNewBest       = "new_best"
	ResultNoImprovement = "no_improvement"
	ResultRejected      = "rejected"
	ResultDispatched    = "dispatched"
	ResultRetry         = "retry"
	ResultDead          = "dead"
	ResultHit           = "hit"
	ResultMiss          = "miss"
	TierLocal           = "local"
	TierRedis           = "redis"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// SettlementLatencyBuckets covers a single settlement transaction, 5ms to 30s.
var SettlementLatencyBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgEventPayloadDecodeFailed = "Event payload could not be decoded"
)

// UnmatchedRoute labels requests that did not match a chi route.
const UnmatchedRoute = "unmatched"
