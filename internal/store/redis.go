package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"TrendSentinel/internal/model"

	goredis "github.com/go-redis/redis/v8"
)

// DefaultRedisPrefix namespaces verdict keys.
const DefaultRedisPrefix = "trendsentinel:verdict:"

// RedisConfig configures the Redis store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// RedisStore keeps each verdict as a JSON string under <prefix><symbol>.
type RedisStore struct {
	client *goredis.Client
	prefix string
}

// Ensure the RedisStore implements the Store interface.
var _ Store = (*RedisStore)(nil)

// NewRedisStore connects to Redis and pings the server.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStoreWithClient(client, cfg.Prefix), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *goredis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(symbol string) string {
	return s.prefix + symbol
}

func (s *RedisStore) Get(ctx context.Context, symbol string) (model.Verdict, bool, error) {
	data, err := s.client.Get(ctx, s.key(symbol)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return model.Verdict{}, false, nil
	}
	if err != nil {
		return model.Verdict{}, false, fmt.Errorf("redis get %s: %w", symbol, err)
	}

	var v model.Verdict
	if err := json.Unmarshal(data, &v); err != nil {
		return model.Verdict{}, false, fmt.Errorf("decode verdict %s: %w", symbol, err)
	}
	return v, true, nil
}

func (s *RedisStore) Put(ctx context.Context, symbol string, v model.Verdict) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(symbol), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", symbol, err)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
