package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"focushub/internal/logging"
	"focushub/internal/metrics"
	"focushub/internal/microservices/http-api/dto"

	"github.com/redis/go-redis/v9"
)

// StatsCache sits in front of the rating aggregates. Rating writes overwrite
// an entry with committed statistics; reads only fill an empty slot, so a read
// that raced a write cannot replace the fresher value.
type StatsCache interface {
	Enabled() bool
	Get(ctx context.Context, postID int64) (*dto.RatingStatistics, bool)
	// Add stores stats only when postID has no entry yet.
	Add(ctx context.Context, postID int64, stats *dto.RatingStatistics)
	// Set overwrites the entry; on failure the entry is dropped.
	Set(ctx context.Context, postID int64, stats *dto.RatingStatistics)
	Invalidate(ctx context.Context, postID int64)
}

// RedisStatsCache stores statistics as JSON under ratings:stats:<post>. With a
// nil client every operation is a no-op and every Get is a miss.
type RedisStatsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisClient connects to redisURL. It returns nil when the URL is empty or
// the server is unreachable, which disables caching.
func NewRedisClient(redisURL string) *redis.Client {
	if redisURL == "" {
		logging.Logger.Info().Msg("redis: no URL configured, caching disabled")
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logging.Logger.Warn().Err(err).Msg("redis: invalid URL, caching disabled")
		return nil
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logging.Logger.Warn().Err(err).Msg("redis: connection failed, caching disabled")
		_ = rdb.Close()
		return nil
	}

	logging.Logger.Info().Msg("redis: connected, caching enabled")
	return rdb
}

func NewStatsCache(rdb *redis.Client, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{rdb: rdb, ttl: ttl}
}

func (c *RedisStatsCache) Enabled() bool {
	return c.rdb != nil && c.ttl > 0
}

func (c *RedisStatsCache) Get(ctx context.Context, postID int64) (*dto.RatingStatistics, bool) {
	if !c.Enabled() {
		return nil, false
	}

	data, err := c.rdb.Get(ctx, statsKey(postID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logging.Logger.Warn().Err(err).Int64("post_id", postID).Msg("stats cache read failed")
		}
		metrics.StatsCacheMisses.Inc()
		return nil, false
	}

	stats, err := decodeStats(data)
	if err != nil {
		metrics.StatsCacheMisses.Inc()
		return nil, false
	}
	metrics.StatsCacheHits.Inc()
	return stats, true
}

func (c *RedisStatsCache) Add(ctx context.Context, postID int64, stats *dto.RatingStatistics) {
	if !c.Enabled() {
		return
	}
	b, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.rdb.SetNX(ctx, statsKey(postID), b, c.ttl).Err(); err != nil {
		logging.Logger.Warn().Err(err).Int64("post_id", postID).Msg("stats cache write failed")
	}
}

func (c *RedisStatsCache) Set(ctx context.Context, postID int64, stats *dto.RatingStatistics) {
	if !c.Enabled() {
		return
	}
	b, err := json.Marshal(stats)
	if err == nil {
		err = c.rdb.Set(ctx, statsKey(postID), b, c.ttl).Err()
	}
	if err != nil {
		logging.Logger.Warn().Err(err).Int64("post_id", postID).Msg("stats cache write failed")
		c.Invalidate(ctx, postID)
	}
}

func (c *RedisStatsCache) Invalidate(ctx context.Context, postID int64) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, statsKey(postID)).Err(); err != nil {
		logging.Logger.Warn().Err(err).Int64("post_id", postID).Msg("stats cache invalidation failed")
	}
}

func statsKey(postID int64) string {
	return fmt.Sprintf("ratings:stats:%d", postID)
}

func decodeStats(data []byte) (*dto.RatingStatistics, error) {
	var stats dto.RatingStatistics
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
