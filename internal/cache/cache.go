// Package cache provides the cache store implementations for Lendly.
package cache

import (
	"fmt"

	"github.com/SherlockH0olms/Lendly/internal/domain"
)

// New creates a new store based on configuration.
// "memory" returns the in-process store. "redis" returns the failover store:
// Redis first, with a transparent in-process fallback when the backend errors.
func New(cfg domain.StoreConfig) (domain.Store, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(cfg.CounterTTL), nil

	case "redis":
		remote, err := NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CounterTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis store: %w", err)
		}
		return NewFailoverStore(remote, NewMemoryStore(cfg.CounterTTL)), nil

	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.Type)
	}
}
