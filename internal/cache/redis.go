package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SherlockH0olms/Lendly/internal/domain"
)

// RedisStore implements Store using Redis, the durable shared backend.
type RedisStore struct {
	client     *redis.Client
	counterTTL time.Duration
}

// incrFieldScript increments a hash field and sets the bucket expiry on first
// write, atomically.
var incrFieldScript = redis.NewScript(`
	local total = redis.call('HINCRBY', KEYS[1], ARGV[1], ARGV[2])
	if redis.call('PTTL', KEYS[1]) < 0 then
		redis.call('PEXPIRE', KEYS[1], ARGV[3])
	end
	return total
`)

// NewRedisStore creates a new Redis-backed store and verifies connectivity.
func NewRedisStore(addr, password string, db int, counterTTL time.Duration) (*RedisStore, error) {
	if addr == "" {
		addr = "localhost:6379"
	}
	if counterTTL <= 0 {
		counterTTL = domain.DefaultCounterTTL
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client, counterTTL: counterTTL}, nil
}

// Get retrieves a value from Redis.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.makeKey(key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Set stores a value in Redis with TTL.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.makeKey(key), value, ttl).Err()
}

// Delete removes a value from Redis.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.makeKey(key)).Err()
}

// IncrementField atomically increments a hash field using a Lua script so the
// increment and the first-write expiry are a single operation.
func (s *RedisStore) IncrementField(ctx context.Context, bucket, field string, delta int64) (int64, error) {
	return incrFieldScript.Run(ctx, s.client,
		[]string{s.makeKey(bucket)},
		field, delta, s.counterTTL.Milliseconds(),
	).Int64()
}

// Ping checks Redis connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) makeKey(key string) string {
	return "lendly:" + key
}
