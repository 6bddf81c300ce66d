package tournament

import "time"

// Leaderboard limits
const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

// Cache configuration
const (
	// CacheSchemaVersion is bumped whenever the cached snapshot layout changes,
	// which drops older entries on read.
	CacheSchemaVersion = "1"

	DefaultLocalCacheSize = 1024
	DefaultCacheTTL       = 5 * time.Second
	RedisKeyPrefix        = "prize-arena:leaderboard:"
	RedisGenKeyPrefix     = "prize-arena:leaderboard-gen:"

	// GenerationTTL bounds how long an invalidation generation is remembered.
	// It must outlive any leaderboard read.
	GenerationTTL        = time.Hour
	GenerationSizeFactor = 4
)

// Job names
const (
	JobNameActivation = "tournament_activation"
)

// Error context
const (
	ErrContextCreate      = "failed to create tournament"
	ErrContextGet         = "failed to get tournament"
	ErrContextList        = "failed to list tournaments"
	ErrContextLeaderboard = "failed to get leaderboard"
	ErrContextReceipts    = "failed to get receipts"
	ErrContextActivate    = "failed to activate tournaments"
	ErrContextPresets     = "failed to load distribution presets"
)

// Log messages
const (
	LogMsgTournamentCreated     = "Tournament created"
	LogMsgTournamentsActivated  = "Tournaments activated"
	LogMsgPublishFailed         = "Failed to publish tournament event"
	LogMsgPresetResolved        = "Resolved distribution preset"
	LogMsgRedisReadFailed       = "Leaderboard cache read from redis failed"
	LogMsgRedisWriteFailed      = "Leaderboard cache write to redis failed"
	LogMsgRedisInvalidateFailed = "Leaderboard cache invalidate in redis failed"
	LogMsgCacheDecodeFailed     = "Leaderboard cache entry could not be decoded"
	LogMsgStaleSnapshotDropped  = "Dropped leaderboard snapshot read before invalidation"
	LogMsgPresetsLoaded         = "Distribution presets loaded"
)
