package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		err := store.Set(ctx, "key1", []byte("value1"), time.Minute)
		if err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		val, err := store.Get(ctx, "key1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}

		if string(val) != "value1" {
			t.Errorf("expected 'value1', got '%s'", string(val))
		}
	})

	t.Run("GetMiss", func(t *testing.T) {
		val, err := store.Get(ctx, "nonexistent")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if val != nil {
			t.Errorf("expected nil for cache miss, got: %v", val)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		_ = store.Set(ctx, "key2", []byte("value2"), time.Minute)

		if err := store.Delete(ctx, "key2"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		val, _ := store.Get(ctx, "key2")
		if val != nil {
			t.Error("expected nil after delete")
		}
	})

	t.Run("TTLExpiration", func(t *testing.T) {
		_ = store.Set(ctx, "expiring", []byte("temp"), 10*time.Millisecond)

		// Should be available immediately
		val, _ := store.Get(ctx, "expiring")
		if val == nil {
			t.Error("expected value before expiration")
		}

		// Wait for expiration
		time.Sleep(20 * time.Millisecond)

		val, _ = store.Get(ctx, "expiring")
		if val != nil {
			t.Error("expected nil after expiration")
		}
	})

	t.Run("IncrementField", func(t *testing.T) {
		n, err := store.IncrementField(ctx, "analytics:scores", "total", 1)
		if err != nil {
			t.Fatalf("IncrementField failed: %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1, got %d", n)
		}

		n, _ = store.IncrementField(ctx, "analytics:scores", "total", 2)
		if n != 3 {
			t.Errorf("expected 3, got %d", n)
		}

		// Different field starts at its own total
		n, _ = store.IncrementField(ctx, "analytics:scores", "sector:IT", 1)
		if n != 1 {
			t.Errorf("expected independent field total 1, got %d", n)
		}
	})

	t.Run("CounterWindowExpiry", func(t *testing.T) {
		short := NewMemoryStore(10 * time.Millisecond)

		n, _ := short.IncrementField(ctx, "b", "f", 5)
		if n != 5 {
			t.Fatalf("expected 5, got %d", n)
		}

		time.Sleep(20 * time.Millisecond)

		// Counter past its TTL restarts from zero
		n, _ = short.IncrementField(ctx, "b", "f", 1)
		if n != 1 {
			t.Errorf("expected counter reset to 1, got %d", n)
		}
	})

	t.Run("SweepReclaimsExpired", func(t *testing.T) {
		sweeping := NewMemoryStore(0)
		for i := 0; i < 10; i++ {
			_ = sweeping.Set(ctx, "short", []byte("x"), time.Millisecond)
		}
		time.Sleep(5 * time.Millisecond)
		if sweeping.Size() != 0 {
			t.Errorf("expected expired entries reclaimed, size=%d", sweeping.Size())
		}
	})
}

// failingStore errors on every operation, simulating an unreachable backend.
type failingStore struct{}

var errBackendDown = errors.New("backend unreachable")

func (f *failingStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errBackendDown
}
func (f *failingStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errBackendDown
}
func (f *failingStore) Delete(ctx context.Context, key string) error { return errBackendDown }
func (f *failingStore) IncrementField(ctx context.Context, bucket, field string, delta int64) (int64, error) {
	return 0, errBackendDown
}
func (f *failingStore) Ping(ctx context.Context) error { return errBackendDown }
func (f *failingStore) Close() error                   { return nil }

func TestFailoverStore(t *testing.T) {
	ctx := context.Background()
	store := NewFailoverStore(&failingStore{}, NewMemoryStore(0))

	t.Run("SetGetDegradeSilently", func(t *testing.T) {
		if err := store.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
			t.Fatalf("Set surfaced backend error: %v", err)
		}

		val, err := store.Get(ctx, "k")
		if err != nil {
			t.Fatalf("Get surfaced backend error: %v", err)
		}
		if string(val) != "v" {
			t.Errorf("expected fallback value 'v', got '%s'", string(val))
		}
	})

	t.Run("IncrementDegradesSilently", func(t *testing.T) {
		n, err := store.IncrementField(ctx, "bucket", "field", 1)
		if err != nil {
			t.Fatalf("IncrementField surfaced backend error: %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1, got %d", n)
		}
	})

	t.Run("PingReportsBackend", func(t *testing.T) {
		if err := store.Ping(ctx); err == nil {
			t.Error("expected Ping to report the unhealthy backend")
		}
	})
}
