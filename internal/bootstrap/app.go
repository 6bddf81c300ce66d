package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/osse101/PrizeArena_Go/internal/concurrency"
	"github.com/osse101/PrizeArena_Go/internal/config"
	"github.com/osse101/PrizeArena_Go/internal/database"
	"github.com/osse101/PrizeArena_Go/internal/event"
	"github.com/osse101/PrizeArena_Go/internal/eventlog"
	"github.com/osse101/PrizeArena_Go/internal/participation"
	"github.com/osse101/PrizeArena_Go/internal/payment"
	"github.com/osse101/PrizeArena_Go/internal/payout"
	"github.com/osse101/PrizeArena_Go/internal/scheduler"
	"github.com/osse101/PrizeArena_Go/internal/server"
	"github.com/osse101/PrizeArena_Go/internal/settlement"
	"github.com/osse101/PrizeArena_Go/internal/tournament"
	"github.com/osse101/PrizeArena_Go/internal/worker"
)

// App owns every long-lived component of the running service.
type App struct {
	cfg         *config.Config
	db          *pgxpool.Pool
	redis       *redis.Client
	server      *server.Server
	pool        *worker.Pool
	scheduler   *scheduler.Scheduler
	publisher   *event.ResilientPublisher
	deadLetters *event.DeadLetterWriter
	jobs        []scheduledJob
}

type scheduledJob struct {
	interval time.Duration
	job      worker.Job
}

// New connects to the database and redis, applies migrations and wires the
// services, HTTP server and background jobs. Nothing runs until Run.
func New(ctx context.Context, cfg *config.Config) (_ *App, err error) {
	app := &App{cfg: cfg}
	defer func() {
		if err != nil {
			app.closeResources()
		}
	}()

	app.db, err = database.NewPool(ctx, cfg.PoolConfig())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDB, err)
	}
	if err = database.Migrate(ctx, app.db); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
	}

	if cfg.RedisEnabled() {
		if app.redis, err = connectRedis(ctx, cfg); err != nil {
			return nil, err
		}
	}

	presets, err := tournament.LoadPresets(cfg.DistributionPresetsPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadPresets, err)
	}
	slog.Info(LogMsgPresetsLoaded, "path", cfg.DistributionPresetsPath, "count", len(presets.Names()))

	events, err := InitializeEventSystem(cfg)
	if err != nil {
		return nil, err
	}
	publisher := events.Publisher
	app.publisher = publisher

	clock := time.Now
	repos := InitializeRepositories(app.db)
	eventLogService := eventlog.NewService(repos.EventLog, clock)
	if err = events.AttachSubscribers(eventLogService); err != nil {
		return nil, err
	}

	cache := tournament.NewLeaderboardCache(tournament.DefaultLocalCacheSize, cfg.LeaderboardCacheTTL, app.redis)
	tournamentService := tournament.NewService(repos.Tournament, publisher, cache, presets, clock)
	participationService := participation.NewService(repos.Participation, publisher, tournamentService, clock)
	settlementService := settlement.NewService(repos.Settlement, repos.Tournament, publisher, tournamentService,
		concurrency.NewLockManager(), settlement.Config{
			Parallelism: cfg.SettlementParallelism,
			TxTimeout:   cfg.SettlementTxTimeout,
		})

	gateway, err := payment.New(payment.Config{
		Mode:    cfg.PaymentMode,
		BaseURL: cfg.PaymentBaseURL,
		APIKey:  cfg.PaymentAPIKey,
		Timeout: cfg.PaymentTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateGateway, err)
	}
	slog.Info(LogMsgPaymentGatewayReady, "mode", cfg.PaymentMode)

	if app.deadLetters, err = event.NewDeadLetterWriter(cfg.DeadLetterPath); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenDeadLetters, err)
	}

	dispatcher := payout.NewDispatcher(repos.Payout, gateway, publisher, app.deadLetters, payout.Config{
		BatchSize:      cfg.PayoutBatchSize,
		MaxAttempts:    cfg.PayoutMaxAttempts,
		RetryBaseDelay: cfg.PayoutRetryBaseDelay,
		Lease:          payout.DefaultLease,
	}, clock)

	app.jobs = []scheduledJob{
		{cfg.ActivationInterval, tournament.NewActivationJob(tournamentService, clock)},
		{cfg.SettlementInterval, settlement.NewJob(settlementService, cfg.SettlementInterval, clock)},
		{cfg.PayoutInterval, dispatcher},
		{EventLogCleanupInterval, eventlog.NewCleanupJob(eventLogService, eventlog.RetentionDays(cfg.EventLogRetentionDays))},
	}
	app.pool = worker.NewPool(cfg.WorkerCount, cfg.WorkerQueueSize)
	app.scheduler = scheduler.New(app.pool)

	app.server = server.NewServer(server.Config{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		RateLimit:      cfg.RateLimit,
	}, server.Services{
		DB:            app.db,
		Redis:         app.redis,
		Tournaments:   tournamentService,
		Participation: participationService,
		Settlement:    settlementService,
		Wallets:       repos.Wallet,
		Payouts:       repos.Payout,
		Events:        eventLogService,
		Clock:         clock,
	})

	return app, nil
}

func connectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, RedisPingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectRedis, err)
	}

	slog.Info(LogMsgRedisConnected, "addr", cfg.RedisAddr)
	return rdb, nil
}

// Run starts the background jobs and serves HTTP until ctx is cancelled or
// the listener fails, then shuts everything down within shutdownTimeout.
func (a *App) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	a.pool.Start()
	for _, j := range a.jobs {
		a.scheduler.Schedule(j.interval, j.job)
	}
	a.scheduler.TriggerAll()
	slog.Info(LogMsgSchedulerStarted, "jobs", len(a.jobs))

	serveErr := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-serveErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	GracefulShutdown(shutdownCtx, a)

	return runErr
}
