package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lawn-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = errors.New("cache miss")

// Cache stores JSON values under a version. A Save carrying a version older
// than the cached one is ignored, and a deleted key refuses saves until it
// expires, so a slow reader cannot put back data a writer already replaced.
type Cache interface {
	Get(ctx context.Context, key string, value any) error
	Save(ctx context.Context, key string, value any, version int64) error
	Delete(ctx context.Context, key string) error
}

// Entries are hashes: "data" holds the JSON value, "ver" its version and
// "tomb" marks a deleted key.
var saveScript = redis.NewScript(`
if redis.call('HEXISTS', KEYS[1], 'tomb') == 1 then
	return 0
end
local cur = redis.call('HGET', KEYS[1], 'ver')
if cur and tonumber(cur) > tonumber(ARGV[2]) then
	return 0
end
redis.call('HSET', KEYS[1], 'data', ARGV[1], 'ver', ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return 1
`)

var deleteScript = redis.NewScript(`
redis.call('DEL', KEYS[1])
redis.call('HSET', KEYS[1], 'tomb', '1')
redis.call('PEXPIRE', KEYS[1], ARGV[1])
return 1
`)

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisClient connects to redis and pings it.
func NewRedisClient(ctx context.Context, config utils.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", config.Addr, err)
	}

	return client, nil
}

func NewRedisCache(client *redis.Client, ttl time.Duration, log *zap.Logger) Cache {
	return &redisCache{
		client: client,
		ttl:    ttl,
		log:    log.With(zap.String("cache", "redis")),
	}
}

func (c *redisCache) Get(ctx context.Context, key string, value any) error {
	raw, err := c.client.HGet(ctx, key, "data").Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("get cache value %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, value); err != nil {
		c.log.Error("Failed to unmarshal cache value", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("unmarshal cache value %s: %w", key, err)
	}

	return nil
}

func (c *redisCache) Save(ctx context.Context, key string, value any, version int64) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value %s: %w", key, err)
	}

	stored, err := saveScript.Run(ctx, c.client, []string{key}, raw, version, c.ttl.Milliseconds()).Int()
	if err != nil {
		c.log.Error("Failed to set cache value", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("set cache value %s: %w", key, err)
	}
	if stored == 0 {
		c.log.Debug("Skipped cache write, newer entry present", zap.String("key", key), zap.Int64("version", version))
	}

	return nil
}

func (c *redisCache) Delete(ctx context.Context, key string) error {
	if err := deleteScript.Run(ctx, c.client, []string{key}, c.ttl.Milliseconds()).Err(); err != nil {
		c.log.Error("Failed to delete cache value", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("delete cache value %s: %w", key, err)
	}
	return nil
}

type noopCache struct{}

// NewNoopCache returns a cache that never stores anything.
func NewNoopCache() Cache {
	return noopCache{}
}

func (noopCache) Get(context.Context, string, any) error         { return ErrMiss }
func (noopCache) Save(context.Context, string, any, int64) error { return nil }
func (noopCache) Delete(context.Context, string) error           { return nil }
