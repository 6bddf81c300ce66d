package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/PrizeArena_Go/internal/config"
	"github.com/osse101/PrizeArena_Go/internal/domain"
)

// TransferStatus is the state of a transfer on the payment network.
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusCompleted TransferStatus = "completed"
	TransferStatusFailed    TransferStatus = "failed"
	TransferStatusUnknown   TransferStatus = "unknown"
)

// Transfer asks the network to move Amount to PlayerID. Reference is the
// caller's idempotency key; sending the same reference twice moves money once.
type Transfer struct {
	Reference string          `json:"reference"`
	PlayerID  string          `json:"player_id"`
	Amount    decimal.Decimal `json:"amount"`
	Memo      string          `json:"memo,omitempty"`
}

// TransferReceipt acknowledges a transfer.
type TransferReceipt struct {
	Reference   string          `json:"reference"`
	ExternalRef string          `json:"external_ref"`
	Status      TransferStatus  `json:"status"`
	Amount      decimal.Decimal `json:"amount"`
	ProcessedAt time.Time       `json:"processed_at"`
}

// Gateway is the payment network the payout worker delivers prizes through.
// SendFunds fails with domain.ErrTransient when a retry may succeed and with
// domain.ErrPaymentRejected when it cannot.
type Gateway interface {
	SendFunds(ctx context.Context, t Transfer) (TransferReceipt, error)
	GetBalance(ctx context.Context, playerID string) (decimal.Decimal, error)
	CheckStatus(ctx context.Context, reference string) (TransferStatus, error)
}

// Config selects and configures a gateway
type Config struct {
	Mode    string
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// New builds the gateway named by cfg.Mode.
func New(cfg Config) (Gateway, error) {
	switch cfg.Mode {
	case "", config.PaymentModeSimulated:
		return NewSimulatedGateway(), nil
	case config.PaymentModeHTTP:
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("%s: %w: base url is required", ErrContextNewGateway, domain.ErrGatewayMisconfig)
		}
		opts := []Option{WithAPIKey(cfg.APIKey)}
		if cfg.Timeout > 0 {
			opts = append(opts, WithTimeout(cfg.Timeout))
		}
		return NewHTTPGateway(cfg.BaseURL, opts...), nil
	default:
		return nil, fmt.Errorf("%s: %w: unknown mode %q", ErrContextNewGateway, domain.ErrGatewayMisconfig, cfg.Mode)
	}
}
