package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MichiMauch/geobattle/internal/geobattle"
)

const leaderboardCacheKey = "geobattle:leaderboard"

var errCacheMiss = errors.New("cache miss")

// rankedCache is the slice of the cache the leaderboard needs. Get returns
// errCacheMiss when the key is absent.
type rankedCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

type redisCache struct {
	rdb *redis.Client
}

func (c redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errCacheMiss
	}
	return raw, err
}

func (c redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c redisCache) Del(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

// Leaderboard is the ranked-view read path. The store stays the system of
// record; redis, when configured, only caches the rendered ranking for a
// short TTL.
type Leaderboard struct {
	store        Store
	includeBonus bool
	cache        rankedCache // nil disables caching
	ttl          time.Duration
	logger       *slog.Logger
}

func NewLeaderboard(store Store, includeBonus bool, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *Leaderboard {
	l := &Leaderboard{
		store:        store,
		includeBonus: includeBonus,
		ttl:          ttl,
		logger:       logger,
	}
	if rdb != nil {
		l.cache = redisCache{rdb: rdb}
	}
	return l
}

// Ranked returns all highscore entries sorted by score descending, ties in
// insertion order.
func (l *Leaderboard) Ranked(ctx context.Context) ([]geobattle.HighscoreEntry, error) {
	if l.cache != nil {
		raw, err := l.cache.Get(ctx, leaderboardCacheKey)
		if err == nil {
			var entries []geobattle.HighscoreEntry
			if json.Unmarshal(raw, &entries) == nil {
				return entries, nil
			}
		} else if !errors.Is(err, errCacheMiss) {
			l.logger.Warn("leaderboard cache read failed", "error", err)
		}
	}

	entries, err := l.store.ListHighscores(ctx, l.includeBonus)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		if raw, err := json.Marshal(entries); err == nil {
			if err := l.cache.Set(ctx, leaderboardCacheKey, raw, l.ttl); err != nil {
				l.logger.Warn("leaderboard cache write failed", "error", err)
			}
		}
	}
	return entries, nil
}

// Invalidate drops the cached ranking after a write that changes it: a
// recorded score, or a duel completion whose bonus awards feed the
// bonus-inclusive ranking.
func (l *Leaderboard) Invalidate(ctx context.Context) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Del(ctx, leaderboardCacheKey); err != nil {
		l.logger.Warn("leaderboard cache invalidation failed", "error", err)
	}
}
