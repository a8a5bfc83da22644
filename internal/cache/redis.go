package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces cache keys in a shared Redis.
const DefaultRedisPrefix = "longbox:cache"

// RedisStore is a durable tier backed by Redis. Keys carry a native TTL as
// well as the stored expiry, so Redis reclaims memory on its own and
// DeleteExpired only catches entries whose stored expiry ran out first.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithRedisPrefix overrides DefaultRedisPrefix.
func WithRedisPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

// NewRedisStore wraps an existing client.
func NewRedisStore(rdb *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{rdb: rdb, prefix: DefaultRedisPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

type redisEntry struct {
	DataType  string    `json:"dataType"`
	Value     []byte    `json:"value"`
	FetchedAt time.Time `json:"fetchedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *RedisStore) key(k string) string {
	return s.prefix + ":" + k
}

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	raw, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("redis get: %w", err)
	}

	var re redisEntry
	if err := json.Unmarshal(raw, &re); err != nil {
		return Entry{}, false, fmt.Errorf("decode redis entry: %w", err)
	}
	return Entry{
		Key:       key,
		DataType:  re.DataType,
		Value:     re.Value,
		FetchedAt: re.FetchedAt,
		ExpiresAt: re.ExpiresAt,
	}, true, nil
}

func (s *RedisStore) Set(ctx context.Context, e Entry) error {
	raw, err := json.Marshal(redisEntry{
		DataType:  e.DataType,
		Value:     e.Value,
		FetchedAt: e.FetchedAt,
		ExpiresAt: e.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("encode redis entry: %w", err)
	}

	// Native TTL follows the entry's own clock, not the Redis server's.
	ttl := e.ExpiresAt.Sub(e.FetchedAt)
	if ttl <= 0 {
		return s.Delete(ctx, e.Key)
	}
	if err := s.rdb.Set(ctx, s.key(e.Key), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var expired []string

	iter := s.rdb.Scan(ctx, 0, s.prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		e, ok, err := s.Get(ctx, strings.TrimPrefix(k, s.prefix+":"))
		if err != nil || !ok {
			continue
		}
		if e.ExpiresAt.Before(now) {
			expired = append(expired, k)
		}
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("redis scan: %w", err)
	}
	if len(expired) == 0 {
		return 0, nil
	}

	n, err := s.rdb.Del(ctx, expired...).Result()
	if err != nil {
		return 0, fmt.Errorf("redis del expired: %w", err)
	}
	return n, nil
}
