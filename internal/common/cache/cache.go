// Package cache stores catalog responses from the eligibility service
// (subjects, institutions, program lists) across sessions.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eligibility-intake/internal/common/config"
)

// ErrMiss is returned by Get when the key is not present.
var ErrMiss = errors.New("cache miss")

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Backend() string
	Close() error
}

// New builds the backend selected in config. "none" yields a nil Cache.
func New(cfg config.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case "redis":
		c, err := NewRedis(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "memory", "":
		return NewMemory(), nil
	case "none":
		return nil, nil
	}
	return nil, fmt.Errorf("unsupported cache backend %q", cfg.Backend)
}
