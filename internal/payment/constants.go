package payment

import "time"

const (
	DefaultTimeout = 10 * time.Second
	MaxErrorBody   = 512

	PathTransfers = "/v1/transfers"
	PathBalances  = "/v1/balances"

	HeaderAuthorization  = "Authorization"
	HeaderIdempotencyKey = "Idempotency-Key"

	SimulatedRefPrefix = "sim_"
)

const (
	ErrContextNewGateway = "failed to create payment gateway"
	ErrContextRequest    = "payment request failed"
	ErrContextEncode     = "failed to encode payment request"
	ErrContextDecode     = "failed to decode payment response"
)
