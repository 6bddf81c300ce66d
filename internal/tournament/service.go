package tournament

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/PrizeArena_Go/internal/domain"
	"github.com/osse101/PrizeArena_Go/internal/event"
	"github.com/osse101/PrizeArena_Go/internal/logger"
	"github.com/osse101/PrizeArena_Go/internal/repository"
)

// Service defines the tournament registry
type Service interface {
	// Create registers a tournament. When spec carries no distribution, preset
	// names one from the catalog.
	Create(ctx context.Context, spec domain.TournamentSpec, preset string) (*domain.Tournament, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Tournament, error)
	List(ctx context.Context, status *domain.TournamentStatus, limit int) ([]domain.Tournament, error)
	ListExpiredUnsettled(ctx context.Context, now time.Time) ([]domain.Tournament, error)
	ActivateStarted(ctx context.Context, now time.Time) (int64, error)
	GetLeaderboard(ctx context.Context, id uuid.UUID, limit int) ([]domain.LeaderboardEntry, error)
	GetReceipts(ctx context.Context, id uuid.UUID) ([]domain.PrizeReceipt, error)
	InvalidateLeaderboard(ctx context.Context, id uuid.UUID)
	Presets() []string
}

type service struct {
	repo    repository.Tournament
	bus     event.Bus
	cache   *LeaderboardCache
	presets *PresetCatalog
	now     func() time.Time
}

// NewService creates a new tournament service. cache and presets may be nil.
func NewService(repo repository.Tournament, bus event.Bus, cache *LeaderboardCache, presets *PresetCatalog, clock func() time.Time) Service {
	if cache == nil {
		cache = NewLeaderboardCache(DefaultLocalCacheSize, DefaultCacheTTL, nil)
	}
	if clock == nil {
		clock = time.Now
	}
	return &service{
		repo:    repo,
		bus:     bus,
		cache:   cache,
		presets: presets,
		now:     clock,
	}
}

func (s *service) Create(ctx context.Context, spec domain.TournamentSpec, preset string) (*domain.Tournament, error) {
	log := logger.FromContext(ctx)

	if len(spec.PrizeDistribution) == 0 && preset != "" {
		d, err := s.presets.Resolve(preset)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		spec.PrizeDistribution = d
		log.Debug(LogMsgPresetResolved, "preset", preset)
	}

	t, err := domain.NewTournament(spec, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateTournament(ctx, t); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextCreate, err)
	}

	log.Info(LogMsgTournamentCreated, "tournament_id", t.ID, "name", t.Name, "status", t.Status)
	s.publish(ctx, event.NewTournamentCreatedEvent(t))
	return t, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*domain.Tournament, error) {
	t, err := s.repo.GetTournament(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextGet, err)
	}
	if t == nil {
		return nil, domain.ErrTournamentNotFound
	}
	return t, nil
}

func (s *service) List(ctx context.Context, status *domain.TournamentStatus, limit int) ([]domain.Tournament, error) {
	if status != nil && !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, *status)
	}
	out, err := s.repo.ListTournaments(ctx, status, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextList, err)
	}
	return out, nil
}

func (s *service) ListExpiredUnsettled(ctx context.Context, now time.Time) ([]domain.Tournament, error) {
	out, err := s.repo.ListExpiredUnsettled(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextList, err)
	}
	return out, nil
}

func (s *service) ActivateStarted(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.repo.ActivateStarted(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrContextActivate, err)
	}
	if n > 0 {
		logger.FromContext(ctx).Info(LogMsgTournamentsActivated, "count", n)
	}
	return n, nil
}

// GetLeaderboard serves from the snapshot cache, which always holds the top
// MaxLeaderboardLimit rows so any smaller limit is a slice of it.
func (s *service) GetLeaderboard(ctx context.Context, id uuid.UUID, limit int) ([]domain.LeaderboardEntry, error) {
	limit = clampLeaderboardLimit(limit)

	if entries, ok := s.cache.Get(ctx, id); ok {
		return head(entries, limit), nil
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	gen := s.cache.Generation(ctx, id)
	entries, err := s.repo.GetLeaderboard(ctx, id, MaxLeaderboardLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextLeaderboard, err)
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	s.cache.Set(ctx, id, entries, gen)
	return head(entries, limit), nil
}

func (s *service) GetReceipts(ctx context.Context, id uuid.UUID) ([]domain.PrizeReceipt, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	out, err := s.repo.GetReceipts(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextReceipts, err)
	}
	return out, nil
}

func (s *service) InvalidateLeaderboard(ctx context.Context, id uuid.UUID) {
	s.cache.Invalidate(ctx, id)
}

func (s *service) Presets() []string {
	return s.presets.Names()
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}

func clampLeaderboardLimit(limit int) int {
	if limit <= 0 {
		return DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		return MaxLeaderboardLimit
	}
	return limit
}

func head(entries []domain.LeaderboardEntry, limit int) []domain.LeaderboardEntry {
	if len(entries) > limit {
		return entries[:limit]
	}
	return entries
}
