package tournament

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"

	"github.com/osse101/PrizeArena_Go/internal/domain"
	"github.com/osse101/PrizeArena_Go/internal/logger"
	"github.com/osse101/PrizeArena_Go/internal/metrics"
)

// cachedLeaderboard wraps a ranking snapshot with version metadata
type cachedLeaderboard struct {
	Version    string                    `json:"version"`
	Generation int64                     `json:"generation"`
	Entries    []domain.LeaderboardEntry `json:"entries"`
	CachedAt   time.Time                 `json:"cached_at"`
}

// Generation identifies the invalidation epoch a snapshot was read in. A
// snapshot is only stored while its tournament is still in that epoch.
type Generation struct {
	local  uint64
	remote int64
}

var errStaleSnapshot = errors.New("leaderboard invalidated since read")

// LeaderboardCache keeps leaderboard snapshots in a local expirable LRU and,
// when a redis client is supplied, in redis so every instance shares them.
// Redis failures degrade to a miss.
//
// Each tournament carries an invalidation generation, bumped locally and in
// redis by Invalidate. Set drops snapshots read under an older generation and
// local hits are checked against the redis generation, so an invalidation on
// one instance retires the local copies held by the others.
type LeaderboardCache struct {
	mu      sync.Mutex
	local   *expirable.LRU[uuid.UUID, *cachedLeaderboard]
	gens    *expirable.LRU[uuid.UUID, uint64]
	nextGen atomic.Uint64
	rdb     *redis.Client
	ttl     time.Duration
}

// NewLeaderboardCache creates a cache. rdb may be nil.
func NewLeaderboardCache(size int, ttl time.Duration, rdb *redis.Client) *LeaderboardCache {
	if size <= 0 {
		size = DefaultLocalCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &LeaderboardCache{
		local: expirable.NewLRU[uuid.UUID, *cachedLeaderboard](size, nil, ttl),
		gens:  expirable.NewLRU[uuid.UUID, uint64](size*GenerationSizeFactor, nil, GenerationTTL),
		rdb:   rdb,
		ttl:   ttl,
	}
}

func redisKey(id uuid.UUID) string {
	return RedisKeyPrefix + id.String()
}

func redisGenKey(id uuid.UUID) string {
	return RedisGenKeyPrefix + id.String()
}

// Generation captures the current invalidation epoch of a tournament. Call it
// before reading the snapshot that will be passed to Set.
func (c *LeaderboardCache) Generation(ctx context.Context, id uuid.UUID) Generation {
	c.mu.Lock()
	gen := Generation{}
	gen.local, _ = c.gens.Peek(id)
	c.mu.Unlock()

	if c.rdb != nil {
		remote, err := c.remoteGeneration(ctx, id)
		if err != nil {
			logger.FromContext(ctx).Warn(LogMsgRedisReadFailed, "tournament_id", id, "error", err)
		}
		gen.remote = remote
	}
	return gen
}

func (c *LeaderboardCache) remoteGeneration(ctx context.Context, id uuid.UUID) (int64, error) {
	n, err := c.rdb.Get(ctx, redisGenKey(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// Get returns the cached snapshot for a tournament.
func (c *LeaderboardCache) Get(ctx context.Context, id uuid.UUID) ([]domain.LeaderboardEntry, bool) {
	if entry, ok := c.local.Get(id); ok {
		if entry.Version == CacheSchemaVersion && c.currentRemote(ctx, id, entry.Generation) {
			metrics.LeaderboardCacheLookups.WithLabelValues(metrics.TierLocal, metrics.ResultHit).Inc()
			return entry.Entries, true
		}
		c.local.Remove(id)
	}
	metrics.LeaderboardCacheLookups.WithLabelValues(metrics.TierLocal, metrics.ResultMiss).Inc()

	if c.rdb == nil {
		return nil, false
	}

	log := logger.FromContext(ctx)
	raw, err := c.rdb.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.LeaderboardCacheLookups.WithLabelValues(metrics.TierRedis, metrics.ResultMiss).Inc()
		return nil, false
	}
	if err != nil {
		log.Warn(LogMsgRedisReadFailed, "tournament_id", id, "error", err)
		return nil, false
	}

	var entry cachedLeaderboard
	if err := json.Unmarshal(raw, &entry); err != nil || entry.Version != CacheSchemaVersion {
		log.Debug(LogMsgCacheDecodeFailed, "tournament_id", id, "error", err)
		return nil, false
	}

	metrics.LeaderboardCacheLookups.WithLabelValues(metrics.TierRedis, metrics.ResultHit).Inc()
	c.mu.Lock()
	c.local.Add(id, &entry)
	c.mu.Unlock()
	return entry.Entries, true
}

// currentRemote reports whether a local snapshot built at generation is
// still current in redis. An unreachable redis keeps the local copy.
func (c *LeaderboardCache) currentRemote(ctx context.Context, id uuid.UUID, generation int64) bool {
	if c.rdb == nil {
		return true
	}
	remote, err := c.remoteGeneration(ctx, id)
	if err != nil {
		return true
	}
	return remote == generation
}

// Set stores a snapshot read at gen in both tiers. It is dropped when the
// tournament was invalidated after gen was captured.
func (c *LeaderboardCache) Set(ctx context.Context, id uuid.UUID, entries []domain.LeaderboardEntry, gen Generation) {
	entry := &cachedLeaderboard{
		Version:    CacheSchemaVersion,
		Generation: gen.remote,
		Entries:    entries,
		CachedAt:   time.Now(),
	}
	log := logger.FromContext(ctx)

	c.mu.Lock()
	current, _ := c.gens.Peek(id)
	if current != gen.local {
		c.mu.Unlock()
		log.Debug(LogMsgStaleSnapshotDropped, "tournament_id", id)
		return
	}
	c.local.Add(id, entry)
	c.mu.Unlock()

	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}

	genKey := redisGenKey(id)
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		remote, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if remote != gen.remote {
			return errStaleSnapshot
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, redisKey(id), raw, c.ttl)
			return nil
		})
		return err
	}, genKey)
	switch {
	case err == nil:
	case errors.Is(err, errStaleSnapshot), errors.Is(err, redis.TxFailedErr):
		c.local.Remove(id)
		log.Debug(LogMsgStaleSnapshotDropped, "tournament_id", id)
	default:
		log.Warn(LogMsgRedisWriteFailed, "tournament_id", id, "error", err)
	}
}

// Invalidate drops a tournament's snapshot from both tiers and starts a new
// generation, so snapshots read before this call are never stored.
func (c *LeaderboardCache) Invalidate(ctx context.Context, id uuid.UUID) {
	c.mu.Lock()
	c.gens.Add(id, c.nextGen.Add(1))
	c.local.Remove(id)
	c.mu.Unlock()

	if c.rdb == nil {
		return
	}
	genKey := redisGenKey(id)
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, GenerationTTL)
		pipe.Del(ctx, redisKey(id))
		return nil
	})
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgRedisInvalidateFailed, "tournament_id", id, "error", err)
	}
}

// Clear removes all local entries.
func (c *LeaderboardCache) Clear() {
	c.local.Purge()
}
