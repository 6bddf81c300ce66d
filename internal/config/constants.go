package config

import "time"

const (
	// Configuration file paths
	ConfigPathDistributionPresets = "configs/distributions.yaml"
	DefaultDeadLetterPath         = "logs/payout_deadletter.jsonl"
	DefaultEventDeadLetterPath    = "logs/event_deadletter.jsonl"
)

// Payment gateway modes
const (
	PaymentModeSimulated = "simulated"
	PaymentModeHTTP      = "http"
)

// Defaults
const (
	DefaultPort                  = 8080
	DefaultDBMaxConns            = 20
	DefaultDBMaxConnIdleTime     = 5 * time.Minute
	DefaultDBMaxConnLifetime     = 30 * time.Minute
	DefaultDBStatementTimeout    = 30 * time.Second
	DefaultLeaderboardCacheTTL   = 5 * time.Second
	DefaultSettlementInterval    = 30 * time.Second
	DefaultSettlementParallelism = 4
	DefaultSettlementTxTimeout   = 30 * time.Second
	DefaultActivationInterval    = 15 * time.Second
	DefaultPaymentTimeout        = 10 * time.Second
	DefaultPayoutInterval        = 10 * time.Second
	DefaultPayoutBatchSize       = 50
	DefaultPayoutMaxAttempts     = 8
	DefaultPayoutRetryBaseDelay  = 5 * time.Second
	DefaultEventLogRetentionDays = 30
	DefaultRateLimit             = 1000
	DefaultEventMaxRetries       = 5
	DefaultEventRetryDelay       = 2 * time.Second
	DefaultWorkerCount           = 4
	DefaultWorkerQueueSize       = 64
)
