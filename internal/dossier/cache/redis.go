package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "dossier-cache:"

// RedisCache shares audit state between server replicas. Reserve maps to
// SET NX with the state's TTL.
type RedisCache struct {
	client redis.UniversalClient
	ttl    TTL
}

func NewRedisCache(client redis.UniversalClient, ttl TTL) *RedisCache {
	return &RedisCache{client: client, ttl: ttl.withDefaults()}
}

func (c *RedisCache) Get(ctx context.Context, key string) (Entry, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("get cache entry %s: %w", key, err)
	}
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return Entry{}, false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	return e, true, nil
}

func (c *RedisCache) Reserve(ctx context.Context, key string, e Entry) (bool, error) {
	raw, ttl, err := c.encode(e)
	if err != nil {
		return false, err
	}
	ok, err := c.client.SetNX(ctx, keyPrefix+key, raw, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("reserve cache entry %s: %w", key, err)
	}
	return ok, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, e Entry) error {
	raw, ttl, err := c.encode(e)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, keyPrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("set cache entry %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("invalidate cache entry %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache) encode(e Entry) ([]byte, time.Duration, error) {
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = time.Now()
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, 0, fmt.Errorf("encode cache entry: %w", err)
	}
	return raw, c.ttl.For(e), nil
}
