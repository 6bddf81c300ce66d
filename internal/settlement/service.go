package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/osse101/PrizeArena_Go/internal/concurrency"
	"github.com/osse101/PrizeArena_Go/internal/domain"
	"github.com/osse101/PrizeArena_Go/internal/event"
	"github.com/osse101/PrizeArena_Go/internal/logger"
	"github.com/osse101/PrizeArena_Go/internal/metrics"
	"github.com/osse101/PrizeArena_Go/internal/repository"
)

// Service finalizes expired tournaments and pays their prizes
type Service interface {
	// RunSettlementPass settles every expired tournament. It only fails when
	// the candidates cannot be listed; per-tournament failures are reported
	// in the outcomes.
	RunSettlementPass(ctx context.Context, now time.Time) ([]domain.SettlementOutcome, error)

	// SettleTournament settles one tournament in a single transaction.
	SettleTournament(ctx context.Context, id uuid.UUID, now time.Time) domain.SettlementOutcome
}

// Candidates lists tournaments due for settlement
type Candidates interface {
	ListExpiredUnsettled(ctx context.Context, now time.Time) ([]domain.Tournament, error)
}

// LeaderboardInvalidator drops cached rankings once a tournament is final
type LeaderboardInvalidator interface {
	InvalidateLeaderboard(ctx context.Context, id uuid.UUID)
}

// Config tunes the settlement pass
type Config struct {
	Parallelism int
	TxTimeout   time.Duration
}

type service struct {
	repo        repository.Settlement
	candidates  Candidates
	bus         event.Bus
	leaderboard LeaderboardInvalidator
	locks       *concurrency.LockManager
	cfg         Config
}

// NewService creates the settlement engine. bus and leaderboard may be nil.
func NewService(repo repository.Settlement, candidates Candidates, bus event.Bus, leaderboard LeaderboardInvalidator, locks *concurrency.LockManager, cfg Config) Service {
	if cfg.Parallelism < 1 {
		cfg.Parallelism = DefaultParallelism
	}
	if cfg.TxTimeout <= 0 {
		cfg.TxTimeout = DefaultTxTimeout
	}
	if locks == nil {
		locks = concurrency.NewLockManager()
	}
	return &service{
		repo:        repo,
		candidates:  candidates,
		bus:         bus,
		leaderboard: leaderboard,
		locks:       locks,
		cfg:         cfg,
	}
}

func (s *service) RunSettlementPass(ctx context.Context, now time.Time) ([]domain.SettlementOutcome, error) {
	log := logger.FromContext(ctx)

	candidates, err := s.candidates.ListExpiredUnsettled(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextListCandidates, err)
	}
	if len(candidates) == 0 {
		return []domain.SettlementOutcome{}, nil
	}
	log.Info(LogMsgPassStarted, "candidates", len(candidates))

	outcomes := make([]domain.SettlementOutcome, len(candidates))
	var g errgroup.Group
	g.SetLimit(s.cfg.Parallelism)
	for i := range candidates {
		i, id := i, candidates[i].ID
		g.Go(func() error {
			outcomes[i] = s.SettleTournament(ctx, id, now)
			return nil
		})
	}
	_ = g.Wait()

	counts := map[domain.SettlementStatus]int{}
	for _, o := range outcomes {
		counts[o.Status]++
	}
	log.Info(LogMsgPassCompleted,
		"settled", counts[domain.SettlementStatusSettled],
		"noop", counts[domain.SettlementStatusNoop],
		"failed", counts[domain.SettlementStatusFailed])
	return outcomes, nil
}

func (s *service) SettleTournament(ctx context.Context, id uuid.UUID, now time.Time) domain.SettlementOutcome {
	log := logger.FromContext(ctx).With("tournament_id", id)

	release, ok := s.locks.TryLock(id.String())
	if !ok {
		log.Debug(LogMsgAlreadySettling)
		return domain.NewNoopOutcome(id)
	}
	defer release()

	start := time.Now()
	res := s.settle(ctx, id, now)
	metrics.SettlementDuration.Observe(time.Since(start).Seconds())
	metrics.SettlementOutcomes.WithLabelValues(string(res.outcome.Status)).Inc()

	switch res.outcome.Status {
	case domain.SettlementStatusSettled:
		log.Info(LogMsgTournamentSettled,
			"receipts", res.outcome.Receipts,
			"total_paid", res.outcome.TotalPaid.StringFixed(domain.MoneyScale))
		if s.leaderboard != nil {
			s.leaderboard.InvalidateLeaderboard(ctx, id)
		}
		s.publish(ctx, event.NewTournamentSettledEvent(res.outcome, res.receipts, now))
		if res.successor != nil {
			log.Info(LogMsgTournamentRenewed, "renewed_as", res.successor.ID, "participants", res.successor.CurrentParticipants)
			s.publish(ctx, event.NewTournamentCreatedEvent(res.successor))
		}
	case domain.SettlementStatusNoop:
		if res.outcome.Err != nil {
			log.Info(LogMsgConcurrencyLost, "reason", res.outcome.Error)
		}
	case domain.SettlementStatusFailed:
		log.Error(LogMsgSettlementFailed, "error", res.outcome.Err)
	}
	return res.outcome
}

type settleResult struct {
	outcome   domain.SettlementOutcome
	receipts  []domain.PrizeReceipt
	successor *domain.Tournament
}

func failed(id uuid.UUID, errContext string, err error) settleResult {
	return settleResult{outcome: domain.NewFailedOutcome(id, fmt.Errorf("%s: %w", errContext, err))}
}

// lost reports a settlement that a concurrent runner already completed.
func lost(id uuid.UUID, err error) settleResult {
	outcome := domain.NewNoopOutcome(id)
	outcome.Err = err
	outcome.Error = err.Error()
	return settleResult{outcome: outcome}
}

func (s *service) settle(ctx context.Context, id uuid.UUID, now time.Time) settleResult {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.TxTimeout)
	defer cancel()

	tx, err := s.repo.BeginSettlementTx(ctx)
	if err != nil {
		return failed(id, ErrContextBegin, err)
	}
	defer repository.SafeRollback(ctx, tx)

	t, err := tx.LockTournament(ctx, id)
	if err != nil {
		return failed(id, ErrContextLock, err)
	}
	if t == nil || !t.IsSettleable(now) {
		return settleResult{outcome: domain.NewNoopOutcome(id)}
	}

	ranked, err := tx.GetTopParticipants(ctx, id, t.PrizeDistribution.MaxPlace())
	if err != nil {
		return failed(id, ErrContextRanking, err)
	}

	receipts, total, err := s.payPrizes(ctx, tx, t, ranked, now)
	if errors.Is(err, domain.ErrConcurrencyLost) {
		return lost(id, err)
	}
	if err != nil {
		return failed(id, ErrContextReceipt, err)
	}

	finished, err := tx.MarkFinished(ctx, id)
	if err != nil {
		return failed(id, ErrContextFinish, err)
	}
	if !finished {
		return lost(id, domain.ErrConcurrencyLost)
	}

	var successor *domain.Tournament
	if t.AutoRenew {
		if successor, err = s.renew(ctx, tx, t, now); err != nil {
			return failed(id, ErrContextRenew, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return failed(id, ErrContextCommit, err)
	}

	outcome := domain.SettlementOutcome{
		TournamentID: id,
		Status:       domain.SettlementStatusSettled,
		Receipts:     len(receipts),
		TotalPaid:    total,
	}
	if successor != nil {
		outcome.RenewedAs = &successor.ID
	}
	return settleResult{outcome: outcome, receipts: receipts, successor: successor}
}

// payPrizes credits each paid place, records its receipt and moves the
// amount from the wallet onto the payout outbox.
func (s *service) payPrizes(ctx context.Context, tx repository.SettlementTx, t *domain.Tournament, ranked []domain.Participant, now time.Time) ([]domain.PrizeReceipt, decimal.Decimal, error) {
	shares := t.PrizeDistribution.Allocate(t.PrizePool, len(ranked))
	receipts := make([]domain.PrizeReceipt, 0, len(shares))
	total := decimal.Zero

	for _, share := range shares {
		winner := ranked[share.Place-1]
		paidAt := now
		receipt := domain.PrizeReceipt{
			ID:           uuid.New(),
			TournamentID: t.ID,
			PlayerID:     winner.PlayerID,
			DisplayName:  winner.DisplayName,
			Place:        share.Place,
			Amount:       share.Amount,
			Paid:         true,
			PaidAt:       &paidAt,
			CreatedAt:    now,
		}

		if share.Amount.IsPositive() {
			if _, _, err := tx.CreditWallet(ctx, winner.PlayerID, share.Amount, domain.PrizeKey(receipt.ID), domain.LedgerReasonPrize); err != nil {
				return nil, decimal.Zero, fmt.Errorf("%s: %w", ErrContextCredit, err)
			}
		}

		if err := tx.InsertPrizeReceipt(ctx, &receipt); err != nil {
			if errors.Is(err, domain.ErrDuplicateReceipt) {
				return nil, decimal.Zero, fmt.Errorf("%w: %v", domain.ErrConcurrencyLost, err)
			}
			return nil, decimal.Zero, err
		}

		if share.Amount.IsPositive() {
			outbox := domain.NewPayoutEvent(&receipt, now)
			if err := tx.InsertPayoutEvent(ctx, outbox); err != nil {
				if errors.Is(err, domain.ErrDuplicateReceipt) {
					return nil, decimal.Zero, fmt.Errorf("%w: %v", domain.ErrConcurrencyLost, err)
				}
				return nil, decimal.Zero, fmt.Errorf("%s: %w", ErrContextPayout, err)
			}
			// The queued transfer carries the funds; a dead payout is refunded.
			if _, _, err := tx.DebitWallet(ctx, winner.PlayerID, share.Amount, domain.PayoutKey(outbox.ID), domain.LedgerReasonWithdrawal); err != nil {
				return nil, decimal.Zero, fmt.Errorf("%s: %w", ErrContextPayout, err)
			}
		}

		receipts = append(receipts, receipt)
		total = total.Add(share.Amount)
	}
	return receipts, total, nil
}

// renew creates the next edition and re-enters players who opted in. A
// player who cannot cover the entry fee is left out of the new edition.
func (s *service) renew(ctx context.Context, tx repository.SettlementTx, t *domain.Tournament, now time.Time) (*domain.Tournament, error) {
	log := logger.FromContext(ctx)

	next := t.Successor(now)
	if next == nil {
		return nil, nil
	}
	if err := tx.CreateTournament(ctx, next); err != nil {
		return nil, err
	}

	players, err := tx.GetAutoRenewParticipants(ctx, t.ID)
	if err != nil {
		return nil, err
	}

	contribution := next.NetEntryContribution()
	for _, prev := range players {
		if next.IsFull() {
			break
		}

		p := domain.NewParticipant(next.ID, prev.PlayerID, prev.DisplayName, now)
		p.AutoRenew = true

		if next.EntryFee.IsPositive() {
			_, _, err := tx.DebitWallet(ctx, p.PlayerID, next.EntryFee, domain.EntryFeeKey(next.ID, p.PlayerID), domain.LedgerReasonEntryFee)
			if errors.Is(err, domain.ErrInsufficientFunds) {
				log.Info(LogMsgRenewalSkipped, "tournament_id", next.ID, "player_id", p.PlayerID)
				continue
			}
			if err != nil {
				return nil, err
			}
			p.PaidEntry = true
		}

		if err := tx.InsertParticipant(ctx, p); err != nil {
			return nil, err
		}
		if err := tx.AddParticipant(ctx, next.ID, contribution); err != nil {
			return nil, err
		}
		next.CurrentParticipants++
		next.PrizePool = next.PrizePool.Add(contribution)
	}
	return next, nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}
