package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"

	"github.com/osse101/PrizeArena_Go/internal/domain"
)

// HTTPGateway talks to a JSON payment API over fasthttp.
type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  *fasthttp.Client
	timeout time.Duration
}

// Option configures an HTTPGateway
type Option func(*HTTPGateway)

func WithTimeout(d time.Duration) Option {
	return func(g *HTTPGateway) { g.timeout = d }
}

func WithAPIKey(key string) Option {
	return func(g *HTTPGateway) { g.apiKey = key }
}

// WithClient replaces the underlying fasthttp client, e.g. to dial an in-memory listener.
func WithClient(c *fasthttp.Client) Option {
	return func(g *HTTPGateway) { g.client = c }
}

func NewHTTPGateway(baseURL string, opts ...Option) *HTTPGateway {
	g := &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &fasthttp.Client{ReadTimeout: DefaultTimeout, WriteTimeout: DefaultTimeout, MaxConnsPerHost: 32},
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type balanceResponse struct {
	PlayerID string          `json:"player_id"`
	Balance  decimal.Decimal `json:"balance"`
}

type statusResponse struct {
	Reference string         `json:"reference"`
	Status    TransferStatus `json:"status"`
}

func (g *HTTPGateway) SendFunds(ctx context.Context, t Transfer) (TransferReceipt, error) {
	var receipt TransferReceipt
	headers := map[string]string{HeaderIdempotencyKey: t.Reference}
	if err := g.doJSON(ctx, fasthttp.MethodPost, PathTransfers, headers, t, &receipt); err != nil {
		return TransferReceipt{}, err
	}
	if receipt.Status == TransferStatusFailed {
		return receipt, fmt.Errorf("%w: reference %s", domain.ErrPaymentRejected, t.Reference)
	}
	return receipt, nil
}

func (g *HTTPGateway) GetBalance(ctx context.Context, playerID string) (decimal.Decimal, error) {
	var resp balanceResponse
	path := PathBalances + "/" + url.PathEscape(playerID)
	if err := g.doJSON(ctx, fasthttp.MethodGet, path, nil, nil, &resp); err != nil {
		return decimal.Zero, err
	}
	return resp.Balance, nil
}

func (g *HTTPGateway) CheckStatus(ctx context.Context, reference string) (TransferStatus, error) {
	var resp statusResponse
	path := PathTransfers + "/" + url.PathEscape(reference)
	if err := g.doJSON(ctx, fasthttp.MethodGet, path, nil, nil, &resp); err != nil {
		if errors.Is(err, domain.ErrTransferNotFound) {
			return TransferStatusUnknown, nil
		}
		return TransferStatusUnknown, err
	}
	return resp.Status, nil
}

func (g *HTTPGateway) doJSON(ctx context.Context, method, path string, headers map[string]string, in, out any) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(method)
	req.SetRequestURI(g.baseURL + path)
	req.Header.SetContentType("application/json")
	if g.apiKey != "" {
		req.Header.Set(HeaderAuthorization, "Bearer "+g.apiKey)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextEncode, err)
		}
		req.SetBody(body)
	}

	if err := g.client.DoDeadline(req, resp, g.deadline(ctx)); err != nil {
		return fmt.Errorf("%s: %w: %v", ErrContextRequest, domain.ErrTransient, err)
	}

	status := resp.StatusCode()
	switch {
	case status == fasthttp.StatusNotFound:
		return fmt.Errorf("%s: %w", ErrContextRequest, domain.ErrTransferNotFound)
	case status == fasthttp.StatusTooManyRequests || status >= 500:
		return fmt.Errorf("%s: %w: status=%d body=%s", ErrContextRequest, domain.ErrTransient, status, truncate(resp.Body()))
	case status < 200 || status >= 300:
		return fmt.Errorf("%s: %w: status=%d body=%s", ErrContextRequest, domain.ErrPaymentRejected, status, truncate(resp.Body()))
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return fmt.Errorf("%s: %w", ErrContextDecode, err)
		}
	}
	return nil
}

func (g *HTTPGateway) deadline(ctx context.Context) time.Time {
	own := time.Now().Add(g.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(own) {
		return dl
	}
	return own
}

func truncate(body []byte) string {
	if len(body) > MaxErrorBody {
		return string(body[:MaxErrorBody]) + "..."
	}
	return string(body)
}
