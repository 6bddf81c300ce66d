package database

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool is the part of the connection pool that health checks and shutdown use.
type Pool interface {
	Ping(ctx context.Context) error
	Close()
}

// PoolConfig sizes and tunes the Postgres connection pool.
type PoolConfig struct {
	ConnString       string
	MaxConns         int
	MaxConnIdleTime  time.Duration
	MaxConnLifetime  time.Duration
	StatementTimeout time.Duration
	ApplicationName  string
}

// NewPool opens a pool, applies the per-session settings and verifies connectivity.
func NewPool(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.ConnString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToParseConnString, err)
	}

	pc.MaxConns = clampConns(cfg.MaxConns)
	pc.MinConns = min(DefaultMinConnections, pc.MaxConns)
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.MaxConnLifetime = cfg.MaxConnLifetime

	appName := cfg.ApplicationName
	if appName == "" {
		appName = DefaultApplicationName
	}
	timeout := cfg.StatementTimeout
	if timeout <= 0 {
		timeout = DefaultStatementTimeout
	}
	pc.ConnConfig.RuntimeParams["application_name"] = appName
	pc.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(timeout.Milliseconds(), 10)

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCreatePool, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToPingDatabase, err)
	}

	slog.Default().Info(LogMsgSuccessfullyConnectedToDatabase,
		"max_conns", pc.MaxConns,
		"statement_timeout", timeout)
	return pool, nil
}

func clampConns(n int) int32 {
	switch {
	case n <= 0:
		return DefaultMaxConnections
	case n > math.MaxInt32:
		return math.MaxInt32
	default:
		return int32(n)
	}
}
