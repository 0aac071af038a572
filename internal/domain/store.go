package domain

import (
	"context"
	"time"
)

// Store defines the key/value cache and counter operations used by the
// scoring pipeline. Implementations must never surface backend errors for
// counter or cache operations that can be served by a local fallback.
type Store interface {
	// Get retrieves a value. Returns nil, nil when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with an expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value.
	Delete(ctx context.Context, key string) error

	// IncrementField atomically increments a counter field within a bucket
	// and returns the new total. Used for usage analytics.
	IncrementField(ctx context.Context, bucket, field string, delta int64) (int64, error)

	// Health check
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}

// StoreConfig holds configuration for cache store initialization.
type StoreConfig struct {
	// Type is the store type: "memory" or "redis"
	Type string

	// Redis settings
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// ScoreTTL is how long computed scores stay cached.
	ScoreTTL time.Duration

	// CounterTTL is the retention for analytics counters.
	CounterTTL time.Duration
}

// Default TTLs: cached scores expire after an hour, analytics counters roll
// daily.
const (
	DefaultScoreTTL   = time.Hour
	DefaultCounterTTL = 24 * time.Hour
)
