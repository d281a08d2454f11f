package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "payroll:idempotency:"

// RedisStore shares idempotency records between API instances.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

func NewRedisStore(client redis.UniversalClient, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

// Reserve uses SETNX so only one request wins the key.
func (s *RedisStore) Reserve(ctx context.Context, key string, requestHash string, ttl time.Duration) (Record, bool, error) {
	payload, err := json.Marshal(Record{RequestHash: requestHash})
	if err != nil {
		return Record{}, false, err
	}

	ok, err := s.client.SetNX(ctx, s.keyPrefix+key, payload, ttl).Result()
	if err != nil {
		return Record{}, false, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	if ok {
		return Record{}, true, nil
	}

	raw, err := s.client.Get(ctx, s.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET
		return s.Reserve(ctx, key, requestHash, ttl)
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("failed to read idempotency key: %w", err)
	}

	var existing Record
	if err := json.Unmarshal(raw, &existing); err != nil {
		return Record{}, false, fmt.Errorf("failed to decode idempotency record: %w", err)
	}
	return existing, false, nil
}

func (s *RedisStore) Complete(ctx context.Context, key string, record Record, ttl time.Duration) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.keyPrefix+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store idempotency record: %w", err)
	}
	return nil
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}

// NewRedisClient connects and pings the server.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}
