// Package ratelimit provides fixed-window request rate limiting for the
// scoring endpoint.
package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Result is the outcome of a rate-limit check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// allowScript counts the request in its fixed window, starting the window
// expiry on the first hit, and returns the count plus the remaining window.
var allowScript = redis.NewScript(`
	local count = redis.call('INCR', KEYS[1])
	if count == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	local ttl = redis.call('PTTL', KEYS[1])
	return {count, ttl}
`)

// Limiter admits or rejects requests per caller identity within a fixed time
// window. It counts against the shared Redis backend when one is configured
// and transparently falls back to an in-process window map when the backend
// errors, with identical windowing semantics.
type Limiter struct {
	client *redis.Client // nil when no backend is configured

	mu      sync.Mutex
	windows map[string]*window
	calls   int
}

type window struct {
	count   int
	resetAt time.Time
}

// New creates a limiter. client may be nil, in which case only the in-process
// path is used.
func New(client *redis.Client) *Limiter {
	return &Limiter{
		client:  client,
		windows: make(map[string]*window),
	}
}

// Allow records one request from identity and reports whether it is within
// limit for the current window.
func (l *Limiter) Allow(ctx context.Context, identity string, limit int, windowDur time.Duration) Result {
	if l.client != nil {
		res, err := l.allowRedis(ctx, identity, limit, windowDur)
		if err == nil {
			return res
		}
		slog.Warn("rate limit backend failed, using in-process fallback",
			"identity", identity, "error", err)
	}
	return l.allowMemory(identity, limit, windowDur)
}

func (l *Limiter) allowRedis(ctx context.Context, identity string, limit int, windowDur time.Duration) (Result, error) {
	key := "lendly:ratelimit:" + identity

	vals, err := allowScript.Run(ctx, l.client, []string{key}, windowDur.Milliseconds()).Int64Slice()
	if err != nil {
		return Result{}, err
	}

	count, ttlMs := vals[0], vals[1]
	if ttlMs < 0 {
		ttlMs = windowDur.Milliseconds()
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   int(count) <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   time.Now().Add(time.Duration(ttlMs) * time.Millisecond),
	}, nil
}

func (l *Limiter) allowMemory(identity string, limit int, windowDur time.Duration) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.maybeSweep(now)

	w, ok := l.windows[identity]
	if !ok || !now.Before(w.resetAt) {
		// First request from this identity, or the window rolled over:
		// replace the record atomically under the lock.
		w = &window{count: 0, resetAt: now.Add(windowDur)}
		l.windows[identity] = w
	}

	w.count++
	remaining := limit - w.count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   w.count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   w.resetAt,
	}
}

// maybeSweep reclaims stale windows opportunistically. Caller must hold l.mu.
func (l *Limiter) maybeSweep(now time.Time) {
	l.calls++
	if l.calls%256 != 0 {
		return
	}
	for identity, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, identity)
		}
	}
}
