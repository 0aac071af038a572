package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/SherlockH0olms/Lendly/internal/domain"
)

// FailoverStore tries the shared Redis backend first and transparently
// retries against the in-process store on any backend error. Backend errors
// are logged, never surfaced: cache degradation must not fail a scoring
// request.
type FailoverStore struct {
	remote domain.Store
	local  *MemoryStore
}

// NewFailoverStore wraps a remote store with an in-process fallback.
func NewFailoverStore(remote domain.Store, local *MemoryStore) *FailoverStore {
	return &FailoverStore{remote: remote, local: local}
}

// Get reads from Redis, falling back to the in-process store on error.
func (s *FailoverStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.remote.Get(ctx, key)
	if err == nil {
		return val, nil
	}
	slog.Warn("cache backend get failed, using in-process fallback", "key", key, "error", err)
	return s.local.Get(ctx, key)
}

// Set writes to Redis, falling back to the in-process store on error.
func (s *FailoverStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.remote.Set(ctx, key, value, ttl); err != nil {
		slog.Warn("cache backend set failed, using in-process fallback", "key", key, "error", err)
		return s.local.Set(ctx, key, value, ttl)
	}
	return nil
}

// Delete removes the key from both stores so a stale fallback entry cannot
// resurface after a backend outage.
func (s *FailoverStore) Delete(ctx context.Context, key string) error {
	if err := s.remote.Delete(ctx, key); err != nil {
		slog.Warn("cache backend delete failed", "key", key, "error", err)
	}
	return s.local.Delete(ctx, key)
}

// IncrementField increments in Redis, falling back to the in-process counter
// on error.
func (s *FailoverStore) IncrementField(ctx context.Context, bucket, field string, delta int64) (int64, error) {
	total, err := s.remote.IncrementField(ctx, bucket, field, delta)
	if err == nil {
		return total, nil
	}
	slog.Warn("cache backend increment failed, using in-process fallback",
		"bucket", bucket, "field", field, "error", err)
	return s.local.IncrementField(ctx, bucket, field, delta)
}

// Ping reports backend health. The fallback keeps the store usable even when
// this returns an error.
func (s *FailoverStore) Ping(ctx context.Context) error {
	return s.remote.Ping(ctx)
}

// Close closes both stores.
func (s *FailoverStore) Close() error {
	_ = s.local.Close()
	return s.remote.Close()
}
