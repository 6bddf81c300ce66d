package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/osse101/PrizeArena_Go/internal/database"
)

// Config holds the application configuration
type Config struct {
	Port        int
	APIKey      string // API key for authentication
	LogLevel    string
	LogFormat   string
	LogDir      string
	Environment string
	ServiceName string
	Version     string

	// TrustedProxies may set X-Forwarded-For; RateLimit caps requests per client per window.
	TrustedProxies []string
	RateLimit      int

	// Database
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns         int
	DBMaxConnIdleTime  time.Duration
	DBMaxConnLifetime  time.Duration
	DBStatementTimeout time.Duration

	// Redis is optional; an empty address disables the shared leaderboard cache.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LeaderboardCacheTTL time.Duration

	// Settlement and activation schedules
	SettlementInterval    time.Duration
	SettlementParallelism int
	SettlementTxTimeout   time.Duration
	ActivationInterval    time.Duration

	// Payment gateway
	PaymentMode    string
	PaymentBaseURL string
	PaymentAPIKey  string
	PaymentTimeout time.Duration

	// Payout worker
	PayoutInterval       time.Duration
	PayoutBatchSize      int
	PayoutMaxAttempts    int
	PayoutRetryBaseDelay time.Duration
	DeadLetterPath       string

	// Event publishing retries
	EventMaxRetries     int
	EventRetryDelay     time.Duration
	EventDeadLetterPath string

	WorkerCount     int
	WorkerQueueSize int

	EventLogRetentionDays   int
	DistributionPresetsPath string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:      getEnv("API_KEY", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		LogDir:      getEnv("LOG_DIR", "logs"),
		Environment: getEnv("ENVIRONMENT", "dev"),
		ServiceName: getEnv("SERVICE_NAME", "prize-arena"),
		Version:     getEnv("VERSION", "dev"),

		TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),
		RateLimit:      getEnvAsInt("RATE_LIMIT", DefaultRateLimit),

		DBUser:             getEnv("DB_USER", "postgres"),
		DBPassword:         getEnv("DB_PASSWORD", "postgres"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBName:             getEnv("DB_NAME", "prizearena"),
		DBMaxConns:         getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime),
		DBStatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", DefaultDBStatementTimeout),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		LeaderboardCacheTTL: getEnvAsDuration("LEADERBOARD_CACHE_TTL", DefaultLeaderboardCacheTTL),

		SettlementInterval:    getEnvAsDuration("SETTLEMENT_INTERVAL", DefaultSettlementInterval),
		SettlementParallelism: getEnvAsInt("SETTLEMENT_PARALLELISM", DefaultSettlementParallelism),
		SettlementTxTimeout:   getEnvAsDuration("SETTLEMENT_TX_TIMEOUT", DefaultSettlementTxTimeout),
		ActivationInterval:    getEnvAsDuration("ACTIVATION_INTERVAL", DefaultActivationInterval),

		PaymentMode:    getEnv("PAYMENT_MODE", PaymentModeSimulated),
		PaymentBaseURL: getEnv("PAYMENT_BASE_URL", ""),
		PaymentAPIKey:  getEnv("PAYMENT_API_KEY", ""),
		PaymentTimeout: getEnvAsDuration("PAYMENT_TIMEOUT", DefaultPaymentTimeout),

		PayoutInterval:       getEnvAsDuration("PAYOUT_INTERVAL", DefaultPayoutInterval),
		PayoutBatchSize:      getEnvAsInt("PAYOUT_BATCH_SIZE", DefaultPayoutBatchSize),
		PayoutMaxAttempts:    getEnvAsInt("PAYOUT_MAX_ATTEMPTS", DefaultPayoutMaxAttempts),
		PayoutRetryBaseDelay: getEnvAsDuration("PAYOUT_RETRY_BASE_DELAY", DefaultPayoutRetryBaseDelay),
		DeadLetterPath:       getEnv("DEAD_LETTER_PATH", DefaultDeadLetterPath),

		EventMaxRetries:     getEnvAsInt("EVENT_MAX_RETRIES", DefaultEventMaxRetries),
		EventRetryDelay:     getEnvAsDuration("EVENT_RETRY_DELAY", DefaultEventRetryDelay),
		EventDeadLetterPath: getEnv("EVENT_DEADLETTER_PATH", DefaultEventDeadLetterPath),

		WorkerCount:     getEnvAsInt("WORKER_COUNT", DefaultWorkerCount),
		WorkerQueueSize: getEnvAsInt("WORKER_QUEUE_SIZE", DefaultWorkerQueueSize),

		EventLogRetentionDays:   getEnvAsInt("EVENTLOG_RETENTION_DAYS", DefaultEventLogRetentionDays),
		DistributionPresetsPath: getEnv("DISTRIBUTION_PRESETS_PATH", ConfigPathDistributionPresets),
	}

	portStr := getEnv("PORT", strconv.Itoa(DefaultPort))
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.PaymentMode {
	case PaymentModeSimulated:
	case PaymentModeHTTP:
		if c.PaymentBaseURL == "" {
			return fmt.Errorf("PAYMENT_BASE_URL must be set when PAYMENT_MODE=%s", PaymentModeHTTP)
		}
	default:
		return fmt.Errorf("invalid PAYMENT_MODE %q: expected %s or %s", c.PaymentMode, PaymentModeSimulated, PaymentModeHTTP)
	}
	if c.SettlementParallelism < 1 {
		return fmt.Errorf("SETTLEMENT_PARALLELISM must be at least 1, got %d", c.SettlementParallelism)
	}
	if c.PayoutMaxAttempts < 1 {
		return fmt.Errorf("PAYOUT_MAX_ATTEMPTS must be at least 1, got %d", c.PayoutMaxAttempts)
	}
	if c.PayoutBatchSize < 1 {
		return fmt.Errorf("PAYOUT_BATCH_SIZE must be at least 1, got %d", c.PayoutBatchSize)
	}
	if c.WorkerCount < 1 {
		return fmt.Errorf("WORKER_COUNT must be at least 1, got %d", c.WorkerCount)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt falls back to defaultValue when the variable is unset or not an integer
func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration falls back to defaultValue when the variable is unset or unparsable
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma-separated variable, dropping empty items
func getEnvAsList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// PoolConfig maps the database settings onto the connection pool options.
func (c *Config) PoolConfig() database.PoolConfig {
	return database.PoolConfig{
		ConnString:       c.GetDBConnString(),
		MaxConns:         c.DBMaxConns,
		MaxConnIdleTime:  c.DBMaxConnIdleTime,
		MaxConnLifetime:  c.DBMaxConnLifetime,
		StatementTimeout: c.DBStatementTimeout,
		ApplicationName:  c.ServiceName,
	}
}

// RedisEnabled reports whether a shared cache address was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}
