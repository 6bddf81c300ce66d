package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Settlement Metrics
var (
	SettlementOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSettlementOutcomes,
			Help: HelpTextSettlementOutcomes,
		},
		[]string{LabelStatus},
	)

	SettlementDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameSettlementDuration,
			Help:    HelpTextSettlementDuration,
			Buckets: SettlementLatencyBuckets,
		},
	)

	PrizesPaid = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePrizesPaid,
			Help: HelpTextPrizesPaid,
		},
	)

	PrizeAmountPaid = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePrizeAmountPaid,
			Help: HelpTextPrizeAmountPaid,
		},
	)
)

// Tournament Metrics
var (
	AttemptsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAttemptsRecorded,
			Help: HelpTextAttemptsRecorded,
		},
		[]string{LabelResult},
	)

	TournamentsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTournamentsCreated,
			Help: HelpTextTournamentsCreated,
		},
	)

	TournamentsRenewed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTournamentsRenewed,
			Help: HelpTextTournamentsRenewed,
		},
	)

	ParticipantsJoined = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameParticipantsJoined,
			Help: HelpTextParticipantsJoined,
		},
	)

	LeaderboardCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLeaderboardCacheHit,
			Help: HelpTextLeaderboardCacheHit,
		},
		[]string{LabelTier, LabelResult},
	)
)

// Payout Metrics
var (
	PayoutDispatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePayoutDispatches,
			Help: HelpTextPayoutDispatches,
		},
		[]string{LabelResult},
	)

	PayoutPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNamePayoutPending,
			Help: HelpTextPayoutPending,
		},
	)
)
