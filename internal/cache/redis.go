package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/korcze/korczetube/internal/config"
	"github.com/redis/go-redis/v9"
)

// CountTTL bounds how long a cached reaction count may serve reads before the
// DB is consulted again. The Reaction rows stay authoritative; Redis only
// absorbs repeated count queries on hot videos.
const CountTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, keys ...string) error {
	return c.Client.Del(ctx, keys...).Err()
}

// KeyForReactionCount generates the Redis key for a video's count of one
// reaction kind ("LIKE" or "DISLIKE").
func (c *RedisCache) KeyForReactionCount(videoID uint64, kind string) string {
	return fmt.Sprintf("reactions:count:%d:%s", videoID, kind)
}

// GetReactionCount returns the cached count for (video, kind), or ok=false on
// a cache miss. Refreshes the TTL on access.
func (c *RedisCache) GetReactionCount(ctx context.Context, videoID uint64, kind string) (int64, bool, error) {
	key := c.KeyForReactionCount(videoID, kind)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil // cache miss
	} else if err != nil {
		return 0, false, err
	}
	_ = c.Client.Expire(ctx, key, CountTTL).Err()
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil // treat unparsable value as a miss
	}
	return n, true, nil
}

// SetReactionCount stores a freshly computed count with the standard TTL.
func (c *RedisCache) SetReactionCount(ctx context.Context, videoID uint64, kind string, count int64) error {
	return c.Client.Set(ctx, c.KeyForReactionCount(videoID, kind), count, CountTTL).Err()
}

// InvalidateReactionCounts drops both cached counts for a video after a
// toggle so the next read recomputes from the authoritative rows.
func (c *RedisCache) InvalidateReactionCounts(ctx context.Context, videoID uint64) error {
	return c.Client.Del(ctx,
		c.KeyForReactionCount(videoID, "LIKE"),
		c.KeyForReactionCount(videoID, "DISLIKE"),
	).Err()
}
