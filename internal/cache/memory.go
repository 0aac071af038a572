package cache

import (
	"context"
	"sync"
	"time"

	"github.com/SherlockH0olms/Lendly/internal/domain"
)

// MemoryStore is a thread-safe in-process store with TTL support.
// Used as the default store and as the fallback behind FailoverStore.
// Expired entries are treated as absent and lazily evicted on access; a sweep
// runs opportunistically on writes.
type MemoryStore struct {
	mu         sync.Mutex
	items      map[string]*memoryEntry
	counterTTL time.Duration
	sweepEvery int
	writes     int
}

type memoryEntry struct {
	value     []byte
	count     int64
	expiresAt time.Time
}

// NewMemoryStore creates a new in-process store. counterTTL is the retention
// for analytics counter fields; zero falls back to the 24h default.
func NewMemoryStore(counterTTL time.Duration) *MemoryStore {
	if counterTTL <= 0 {
		counterTTL = domain.DefaultCounterTTL
	}
	return &MemoryStore{
		items:      make(map[string]*memoryEntry),
		counterTTL: counterTTL,
		sweepEvery: 128,
	}
}

// Get retrieves a value. Expired entries are evicted and reported absent.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.items[key]
	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.items, key)
		return nil, nil
	}
	return entry.value, nil
}

// Set stores a value with a TTL.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = &memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	s.maybeSweep()
	return nil
}

// Delete removes a value.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// IncrementField atomically increments a counter field within a bucket and
// returns the new total. Counters use a composite bucket+field key and the
// long counter TTL, distinct from the score-cache TTL.
func (s *MemoryStore) IncrementField(ctx context.Context, bucket, field string, delta int64) (int64, error) {
	key := bucket + ":" + field

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	entry, ok := s.items[key]
	if !ok || now.After(entry.expiresAt) {
		entry = &memoryEntry{expiresAt: now.Add(s.counterTTL)}
		s.items[key] = entry
	}
	entry.count += delta
	s.maybeSweep()
	return entry.count, nil
}

// Ping checks store health.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close cleans up the store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]*memoryEntry)
	return nil
}

// Size returns the number of live entries, evicting expired ones.
func (s *MemoryStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	return len(s.items)
}

// maybeSweep reclaims expired entries every sweepEvery writes.
// Caller must hold s.mu.
func (s *MemoryStore) maybeSweep() {
	s.writes++
	if s.writes%s.sweepEvery != 0 {
		return
	}
	s.sweep()
}

func (s *MemoryStore) sweep() {
	now := time.Now()
	for key, entry := range s.items {
		if now.After(entry.expiresAt) {
			delete(s.items, key)
		}
	}
}
