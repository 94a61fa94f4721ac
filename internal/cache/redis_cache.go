package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/terraincognita07/ekklesia/internal/metrics"
	"github.com/terraincognita07/ekklesia/internal/services"
)

// StatisticsKey is bumped whenever StatisticsSnapshot changes shape.
const StatisticsKey = "ekklesia:statistics:v1"

type Config struct {
	Addr     string
	Password string
	DB       int
}

// redisCommands is the subset of *redis.Client the cache uses.
type redisCommands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// ResultObserver receives one of the metrics.Cache* outcomes per lookup.
type ResultObserver interface {
	ObserveCacheResult(result string)
}

// NewClient connects to Redis and verifies the connection.
func NewClient(cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// RedisStatisticsCache keeps one statistics snapshot under StatisticsKey.
type RedisStatisticsCache struct {
	client   redisCommands
	ttl      time.Duration
	observer ResultObserver
}

var _ services.StatisticsCache = (*RedisStatisticsCache)(nil)

func NewRedisStatisticsCache(client redisCommands, ttl time.Duration, observer ResultObserver) *RedisStatisticsCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisStatisticsCache{client: client, ttl: ttl, observer: observer}
}

func (cache *RedisStatisticsCache) Load(ctx context.Context) (services.StatisticsSnapshot, bool, error) {
	payload, err := cache.client.Get(ctx, StatisticsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		cache.observe(metrics.CacheMiss)
		return services.StatisticsSnapshot{}, false, nil
	}
	if err != nil {
		cache.observe(metrics.CacheError)
		return services.StatisticsSnapshot{}, false, fmt.Errorf("redis get %s: %w", StatisticsKey, err)
	}

	var snapshot services.StatisticsSnapshot
	if err := sonic.Unmarshal(payload, &snapshot); err != nil {
		cache.observe(metrics.CacheError)
		return services.StatisticsSnapshot{}, false, fmt.Errorf("decode cached statistics: %w", err)
	}
	cache.observe(metrics.CacheHit)
	return snapshot, true, nil
}

func (cache *RedisStatisticsCache) Store(ctx context.Context, snapshot services.StatisticsSnapshot) error {
	payload, err := sonic.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode statistics: %w", err)
	}
	if err := cache.client.Set(ctx, StatisticsKey, payload, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", StatisticsKey, err)
	}
	return nil
}

func (cache *RedisStatisticsCache) Invalidate(ctx context.Context) error {
	if err := cache.client.Del(ctx, StatisticsKey).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", StatisticsKey, err)
	}
	return nil
}

func (cache *RedisStatisticsCache) observe(result string) {
	if cache.observer != nil {
		cache.observer.ObserveCacheResult(result)
	}
}
