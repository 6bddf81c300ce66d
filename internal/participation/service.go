package participation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/PrizeArena_Go/internal/domain"
	"github.com/osse101/PrizeArena_Go/internal/event"
	"github.com/osse101/PrizeArena_Go/internal/logger"
	"github.com/osse101/PrizeArena_Go/internal/metrics"
	"github.com/osse101/PrizeArena_Go/internal/repository"
)

// Service records score attempts and tournament entries
type Service interface {
	// RecordAttempt submits a score, joining the player on their first attempt.
	RecordAttempt(ctx context.Context, tournamentID uuid.UUID, playerID, displayName string, score int64) (*domain.AttemptResult, error)

	// Join enters a player without an attempt. Repeating it only updates the
	// auto-renew preference.
	Join(ctx context.Context, tournamentID uuid.UUID, playerID, displayName string, autoRenew bool) (*domain.Participant, error)
}

// LeaderboardInvalidator drops cached rankings after a score change
type LeaderboardInvalidator interface {
	InvalidateLeaderboard(ctx context.Context, id uuid.UUID)
}

type service struct {
	repo        repository.Participation
	bus         event.Bus
	leaderboard LeaderboardInvalidator
	now         func() time.Time
}

// NewService creates a participation service. bus and leaderboard may be nil.
func NewService(repo repository.Participation, bus event.Bus, leaderboard LeaderboardInvalidator, clock func() time.Time) Service {
	if clock == nil {
		clock = time.Now
	}
	return &service{
		repo:        repo,
		bus:         bus,
		leaderboard: leaderboard,
		now:         clock,
	}
}

func (s *service) RecordAttempt(ctx context.Context, tournamentID uuid.UUID, playerID, displayName string, score int64) (*domain.AttemptResult, error) {
	log := logger.FromContext(ctx)

	result, joined, err := s.recordAttempt(ctx, tournamentID, playerID, displayName, score)
	if err != nil {
		metrics.AttemptsRecorded.WithLabelValues(metrics.ResultRejected).Inc()
		log.Debug(LogMsgAttemptRejected, "tournament_id", tournamentID, "player_id", playerID, "error", err)
		return nil, err
	}

	if result.IsNewBest {
		metrics.AttemptsRecorded.WithLabelValues(metrics.ResultNewBest).Inc()
	} else {
		metrics.AttemptsRecorded.WithLabelValues(metrics.ResultNoImprovement).Inc()
	}
	log.Info(LogMsgAttemptRecorded,
		"tournament_id", tournamentID,
		"player_id", playerID,
		"score", score,
		"best", result.BestScore,
		"new_best", result.IsNewBest)

	if joined != nil {
		s.publish(ctx, event.NewParticipantJoinedEvent(joined.tournament, joined.participant))
	}
	if result.IsNewBest {
		if s.leaderboard != nil {
			s.leaderboard.InvalidateLeaderboard(ctx, tournamentID)
		}
		s.publish(ctx, event.NewParticipantNewBestEvent(&domain.Participant{
			TournamentID: tournamentID,
			PlayerID:     playerID,
			BestScore:    result.BestScore,
			Attempts:     result.Attempts,
		}))
	}
	return result, nil
}

type admission struct {
	tournament  *domain.Tournament
	participant *domain.Participant
}

// tournamentLock selects how the tournament row is held for the transaction.
type tournamentLock int

const (
	lockShared tournamentLock = iota
	lockExclusive
)

// errAdmissionRequired ends a shared-lock transaction that found no
// participant; admission changes the tournament row and needs the exclusive lock.
var errAdmissionRequired = errors.New("participant not yet admitted")

func (s *service) recordAttempt(ctx context.Context, tournamentID uuid.UUID, playerID, displayName string, score int64) (*domain.AttemptResult, *admission, error) {
	if score < 0 {
		return nil, nil, domain.ErrInvalidScore
	}
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, nil, fmt.Errorf("%w: player id is required", domain.ErrValidation)
	}

	result, joined, err := s.attemptTx(ctx, tournamentID, playerID, displayName, score, lockShared)
	if errors.Is(err, errAdmissionRequired) {
		return s.attemptTx(ctx, tournamentID, playerID, displayName, score, lockExclusive)
	}
	return result, joined, err
}

func (s *service) attemptTx(ctx context.Context, tournamentID uuid.UUID, playerID, displayName string, score int64, mode tournamentLock) (*domain.AttemptResult, *admission, error) {
	tx, err := s.repo.BeginParticipationTx(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrContextBegin, err)
	}
	defer repository.SafeRollback(ctx, tx)

	now := s.now()
	t, err := s.lockOpenTournament(ctx, tx, tournamentID, now, mode)
	if err != nil {
		return nil, nil, err
	}

	p, err := tx.GetParticipantForUpdate(ctx, tournamentID, playerID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrContextParticipant, err)
	}

	if p == nil {
		if mode == lockShared {
			return nil, nil, errAdmissionRequired
		}
		if p, err = s.admit(ctx, tx, t, playerID, displayName, now); err != nil {
			return nil, nil, err
		}
		isNewBest := p.ApplyAttempt(score, now)
		if err := s.insertParticipant(ctx, tx, t, p); err != nil {
			return nil, nil, err
		}
		joined := &admission{tournament: t, participant: p}
		return s.finishAttempt(ctx, tx, p, score, now, isNewBest, joined)
	}

	if strings.TrimSpace(displayName) != "" {
		p.DisplayName = domain.NormalizeDisplayName(displayName, playerID)
	}
	isNewBest := p.ApplyAttempt(score, now)
	if err := tx.UpdateParticipantScore(ctx, p); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrContextSave, err)
	}
	return s.finishAttempt(ctx, tx, p, score, now, isNewBest, nil)
}

func (s *service) finishAttempt(ctx context.Context, tx repository.ParticipationTx, p *domain.Participant, score int64, now time.Time, isNewBest bool, joined *admission) (*domain.AttemptResult, *admission, error) {
	if err := tx.InsertAttempt(ctx, p.TournamentID, p.PlayerID, score, now); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrContextAttempt, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrContextCommit, err)
	}
	return p.Result(isNewBest), joined, nil
}

func (s *service) Join(ctx context.Context, tournamentID uuid.UUID, playerID, displayName string, autoRenew bool) (*domain.Participant, error) {
	log := logger.FromContext(ctx)

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, fmt.Errorf("%w: player id is required", domain.ErrValidation)
	}

	p, joined, err := s.joinTx(ctx, tournamentID, playerID, displayName, autoRenew, lockShared)
	if errors.Is(err, errAdmissionRequired) {
		p, joined, err = s.joinTx(ctx, tournamentID, playerID, displayName, autoRenew, lockExclusive)
	}
	if err != nil {
		return nil, err
	}
	if joined == nil {
		return p, nil
	}

	log.Info(LogMsgPlayerJoined, "tournament_id", tournamentID, "player_id", playerID, "paid_entry", p.PaidEntry)
	if s.leaderboard != nil {
		s.leaderboard.InvalidateLeaderboard(ctx, tournamentID)
	}
	s.publish(ctx, event.NewParticipantJoinedEvent(joined.tournament, p))
	return p, nil
}

func (s *service) joinTx(ctx context.Context, tournamentID uuid.UUID, playerID, displayName string, autoRenew bool, mode tournamentLock) (*domain.Participant, *admission, error) {
	tx, err := s.repo.BeginParticipationTx(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrContextBegin, err)
	}
	defer repository.SafeRollback(ctx, tx)

	now := s.now()
	t, err := s.lockOpenTournament(ctx, tx, tournamentID, now, mode)
	if err != nil {
		return nil, nil, err
	}

	p, err := tx.GetParticipantForUpdate(ctx, tournamentID, playerID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrContextParticipant, err)
	}

	if p != nil {
		if p.AutoRenew != autoRenew {
			if err := tx.UpdateParticipantAutoRenew(ctx, tournamentID, playerID, autoRenew); err != nil {
				return nil, nil, fmt.Errorf("%s: %w", ErrContextSave, err)
			}
			p.AutoRenew = autoRenew
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", ErrContextCommit, err)
		}
		return p, nil, nil
	}
	if mode == lockShared {
		return nil, nil, errAdmissionRequired
	}

	if p, err = s.admit(ctx, tx, t, playerID, displayName, now); err != nil {
		return nil, nil, err
	}
	p.AutoRenew = autoRenew
	if err := s.insertParticipant(ctx, tx, t, p); err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrContextCommit, err)
	}
	return p, &admission{tournament: t, participant: p}, nil
}

// lockOpenTournament takes the tournament row lock before any participant lock.
func (s *service) lockOpenTournament(ctx context.Context, tx repository.ParticipationTx, id uuid.UUID, now time.Time, mode tournamentLock) (*domain.Tournament, error) {
	lock := tx.GetTournamentForShare
	if mode == lockExclusive {
		lock = tx.GetTournamentForUpdate
	}
	t, err := lock(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextLoad, err)
	}
	if t == nil {
		return nil, domain.ErrTournamentNotFound
	}
	if err := t.CheckAcceptingAttempts(now); err != nil {
		return nil, err
	}
	return t, nil
}

// admit checks the cap and charges the entry fee for a new participant.
func (s *service) admit(ctx context.Context, tx repository.ParticipationTx, t *domain.Tournament, playerID, displayName string, now time.Time) (*domain.Participant, error) {
	if t.IsFull() {
		return nil, domain.ErrCapacityExceeded
	}

	p := domain.NewParticipant(t.ID, playerID, displayName, now)
	if t.EntryFee.IsPositive() {
		_, _, err := tx.DebitWallet(ctx, playerID, t.EntryFee, domain.EntryFeeKey(t.ID, playerID), domain.LedgerReasonEntryFee)
		if errors.Is(err, domain.ErrInsufficientFunds) {
			return nil, err
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextEntryFee, err)
		}
		p.PaidEntry = true
	}
	return p, nil
}

func (s *service) insertParticipant(ctx context.Context, tx repository.ParticipationTx, t *domain.Tournament, p *domain.Participant) error {
	if err := tx.InsertParticipant(ctx, p); err != nil {
		return fmt.Errorf("%s: %w", ErrContextSave, err)
	}
	if err := tx.AddParticipant(ctx, t.ID, t.NetEntryContribution()); err != nil {
		return fmt.Errorf("%s: %w", ErrContextSave, err)
	}
	t.CurrentParticipants++
	t.PrizePool = t.PrizePool.Add(t.NetEntryContribution())
	return nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}
