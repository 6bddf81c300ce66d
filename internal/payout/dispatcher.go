package payout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/PrizeArena_Go/internal/domain"
	"github.com/osse101/PrizeArena_Go/internal/event"
	"github.com/osse101/PrizeArena_Go/internal/logger"
	"github.com/osse101/PrizeArena_Go/internal/metrics"
	"github.com/osse101/PrizeArena_Go/internal/payment"
	"github.com/osse101/PrizeArena_Go/internal/repository"
)

// DeadLetterSink receives payouts that exhausted their attempts.
// *event.DeadLetterWriter satisfies it.
type DeadLetterSink interface {
	Write(evt event.Event, attempts int, lastError error) error
}

// Config tunes the dispatcher
type Config struct {
	BatchSize      int
	MaxAttempts    int
	RetryBaseDelay time.Duration
	Lease          time.Duration
}

// Summary counts what one batch did
type Summary struct {
	Claimed    int
	Dispatched int
	Retried    int
	Dead       int
}

// Dispatcher drains the payout outbox into the payment gateway. Failed
// deliveries are retried with exponential backoff until MaxAttempts, then
// marked dead and written to the dead-letter sink.
type Dispatcher struct {
	repo        repository.Payout
	gateway     payment.Gateway
	bus         event.Bus
	deadLetters DeadLetterSink
	cfg         Config
	now         func() time.Time
}

// NewDispatcher creates a dispatcher. bus and deadLetters may be nil.
func NewDispatcher(repo repository.Payout, gateway payment.Gateway, bus event.Bus, deadLetters DeadLetterSink, cfg Config, clock func() time.Time) *Dispatcher {
	if cfg.BatchSize < 1 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = DefaultRetryBaseDelay
	}
	if cfg.Lease <= 0 {
		cfg.Lease = DefaultLease
	}
	if clock == nil {
		clock = time.Now
	}
	return &Dispatcher{
		repo:        repo,
		gateway:     gateway,
		bus:         bus,
		deadLetters: deadLetters,
		cfg:         cfg,
		now:         clock,
	}
}

// DispatchDue claims one batch of due payouts and delivers each of them.
// A failure to record one payout's result does not stop the batch.
func (d *Dispatcher) DispatchDue(ctx context.Context) (Summary, error) {
	log := logger.FromContext(ctx)
	var summary Summary

	due, err := d.repo.ClaimDue(ctx, d.now(), d.cfg.Lease, d.cfg.BatchSize)
	if err != nil {
		return summary, fmt.Errorf("%s: %w", ErrContextClaim, err)
	}
	summary.Claimed = len(due)

	var errs []error
	for i := range due {
		result, err := d.deliver(ctx, &due[i])
		if err != nil {
			log.Error(LogMsgUpdateFailed, "payout_id", due[i].ID, "error", err)
			errs = append(errs, err)
			continue
		}
		metrics.PayoutDispatches.WithLabelValues(result).Inc()
		switch result {
		case metrics.ResultDispatched:
			summary.Dispatched++
		case metrics.ResultRetry:
			summary.Retried++
		case metrics.ResultDead:
			summary.Dead++
		}
	}

	d.refreshPending(ctx)
	if summary.Claimed > 0 {
		log.Info(LogMsgBatchCompleted,
			"claimed", summary.Claimed,
			"dispatched", summary.Dispatched,
			"retried", summary.Retried,
			"dead", summary.Dead)
	}
	return summary, errors.Join(errs...)
}

func (d *Dispatcher) deliver(ctx context.Context, p *domain.PayoutEvent) (string, error) {
	log := logger.FromContext(ctx).With("payout_id", p.ID, "player_id", p.PlayerID)
	attempts := p.Attempts + 1

	receipt, sendErr := d.gateway.SendFunds(ctx, payment.Transfer{
		Reference: p.ID.String(),
		PlayerID:  p.PlayerID,
		Amount:    p.Amount,
		Memo:      fmt.Sprintf(TransferMemoFormat, p.TournamentID),
	})
	now := d.now()

	if sendErr == nil {
		if err := d.repo.MarkDispatched(ctx, p.ID, receipt.ExternalRef, now); err != nil {
			return "", fmt.Errorf("%s: %w", ErrContextMarkDispatched, err)
		}
		p.Attempts = attempts
		p.Status = domain.PayoutStatusDispatched
		p.ExternalRef = &receipt.ExternalRef
		log.Info(LogMsgDispatched, "external_ref", receipt.ExternalRef, "attempts", attempts)
		d.publish(ctx, event.NewPayoutEvent(event.PayoutDispatched, p))
		return metrics.ResultDispatched, nil
	}

	reason := sendErr.Error()
	if errors.Is(sendErr, domain.ErrPaymentRejected) || attempts >= d.cfg.MaxAttempts {
		if err := d.repo.MarkDead(ctx, p.ID, attempts, reason); err != nil {
			return "", fmt.Errorf("%s: %w", ErrContextMarkDead, err)
		}
		p.Attempts = attempts
		p.Status = domain.PayoutStatusDead
		p.LastError = &reason
		evt := event.NewPayoutEvent(event.PayoutDeadLettered, p)
		log.Warn(LogMsgDeadLettered, "attempts", attempts, "error", sendErr)
		if d.deadLetters != nil {
			if err := d.deadLetters.Write(evt, attempts, sendErr); err != nil {
				log.Error(LogMsgDeadLetterWrite, "error", err)
			}
		}
		d.publish(ctx, evt)
		return metrics.ResultDead, nil
	}

	next := now.Add(event.CalculateRetryDelay(d.cfg.RetryBaseDelay, attempts))
	if err := d.repo.MarkRetry(ctx, p.ID, attempts, next, reason); err != nil {
		return "", fmt.Errorf("%s: %w", ErrContextMarkRetry, err)
	}
	log.Warn(LogMsgRetryScheduled, "attempts", attempts, "next_attempt_at", next, "error", sendErr)
	return metrics.ResultRetry, nil
}

func (d *Dispatcher) refreshPending(ctx context.Context) {
	pending, err := d.repo.CountPending(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgCountPending, "error", err)
		return
	}
	metrics.PayoutPending.Set(float64(pending))
}

func (d *Dispatcher) publish(ctx context.Context, evt event.Event) {
	if d.bus == nil {
		return
	}
	if err := d.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}

// Process implements worker.Job
func (d *Dispatcher) Process(ctx context.Context) error {
	_, err := d.DispatchDue(ctx)
	return err
}

// Name implements worker.Named
func (d *Dispatcher) Name() string {
	return JobNameDispatch
}
