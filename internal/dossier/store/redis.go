package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"dossier/internal/domain"
	"dossier/pkg/platform/sentinel"
)

const (
	keyPrefix             = "dossier:"
	defaultUpdateAttempts = 10
)

// RedisStore keeps each dossier as a JSON document. Update uses WATCH/MULTI
// and retries when another writer touched the key first.
type RedisStore struct {
	client   redis.UniversalClient
	attempts int
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client, attempts: defaultUpdateAttempts}
}

func redisKey(key string) string {
	return keyPrefix + key
}

func (s *RedisStore) Get(ctx context.Context, key string) (*domain.Dossier, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	return readDossier(ctx, s.client, key)
}

func (s *RedisStore) Put(ctx context.Context, key string, d *domain.Dossier) error {
	if err := checkKey(key); err != nil {
		return err
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode dossier %s: %w", key, err)
	}
	if err := s.client.Set(ctx, redisKey(key), raw, 0).Err(); err != nil {
		return fmt.Errorf("put dossier %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Update(ctx context.Context, key string, fn UpdateFunc) (*domain.Dossier, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	k := redisKey(key)

	var result *domain.Dossier
	txf := func(tx *redis.Tx) error {
		current, err := readDossier(ctx, tx, key)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return err
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		if next == nil {
			result = current
			return nil
		}
		raw, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode dossier %s: %w", key, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, raw, 0)
			return nil
		})
		if err != nil {
			return err
		}
		result = next
		return nil
	}

	for range s.attempts {
		err := s.client.Watch(ctx, txf, k)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("update dossier %s: %w", key, sentinel.ErrConflict)
}

func readDossier(ctx context.Context, c redis.Cmdable, key string) (*domain.Dossier, error) {
	raw, err := c.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("dossier %s: %w", key, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get dossier %s: %w", key, err)
	}
	var d domain.Dossier
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode dossier %s: %w", key, err)
	}
	return &d, nil
}
