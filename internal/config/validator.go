package config

import (
	"fmt"
	"os"
	"strings"
)

// ExpectedEnvSchemaVersion is the .env layout this build understands.
const ExpectedEnvSchemaVersion = "1.0"

// Placeholder values shipped in .env.example
const (
	ExampleDBPassword = "change_this_secure_password"
	ExampleAPIKey     = "generate_with_openssl_rand_hex_32"
)

// RequiredEnvVars must be non-empty before the service starts.
var RequiredEnvVars = []string{
	"ENV_SCHEMA_VERSION",
	"DB_USER",
	"DB_PASSWORD",
	"DB_HOST",
	"DB_PORT",
	"DB_NAME",
	"API_KEY",
}

// ValidateEnv checks the schema version and that every required variable is set.
func ValidateEnv() error {
	switch v := os.Getenv("ENV_SCHEMA_VERSION"); {
	case v == "":
		return fmt.Errorf("ENV_SCHEMA_VERSION is not set (expected %s)", ExpectedEnvSchemaVersion)
	case v != ExpectedEnvSchemaVersion:
		return fmt.Errorf("ENV_SCHEMA_VERSION mismatch: expected %s, got %s", ExpectedEnvSchemaVersion, v)
	}

	var missing []string
	for _, name := range RequiredEnvVars {
		if os.Getenv(name) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Warnings lists settings that are valid but probably not what an operator wants.
func (c *Config) Warnings() []string {
	var out []string

	if c.DBPassword == ExampleDBPassword {
		out = append(out, "DB_PASSWORD is the example value")
	}
	if c.APIKey == ExampleAPIKey {
		out = append(out, "API_KEY is the example value, generate one with: openssl rand -hex 32")
	}
	if c.PaymentMode == PaymentModeHTTP && c.PaymentAPIKey == "" {
		out = append(out, "PAYMENT_API_KEY is empty while PAYMENT_MODE=http, the provider will reject payouts")
	}
	if !c.RedisEnabled() {
		out = append(out, "REDIS_ADDR is not set, the leaderboard cache is local to this process")
	}
	if c.SettlementTxTimeout > c.SettlementInterval {
		out = append(out, fmt.Sprintf("SETTLEMENT_TX_TIMEOUT (%s) exceeds SETTLEMENT_INTERVAL (%s), passes will be skipped while one is running",
			c.SettlementTxTimeout, c.SettlementInterval))
	}
	if c.PayoutMaxAttempts == 1 {
		out = append(out, "PAYOUT_MAX_ATTEMPTS=1 dead-letters every payout on its first failure")
	}
	return out
}
