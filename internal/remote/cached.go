package remote

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"eligibility-intake/internal/common/cache"
	"eligibility-intake/internal/common/logger"
	"eligibility-intake/internal/common/metrics"
	"eligibility-intake/internal/models"
)

// CachedClient puts a cache-aside layer in front of the catalog endpoints.
// Compute always goes to the service. Cache failures are logged and the
// call falls through to the service.
type CachedClient struct {
	next   Service
	cache  cache.Cache
	ttl    time.Duration
	prefix string
	logger logger.Logger
}

func NewCachedClient(next Service, c cache.Cache, ttl time.Duration, prefix string, log logger.Logger) Service {
	if c == nil {
		return next
	}
	return &CachedClient{
		next:   next,
		cache:  c,
		ttl:    ttl,
		prefix: prefix,
		logger: logger.Component(log, "remote-cache"),
	}
}

func (c *CachedClient) key(parts ...string) string {
	key := c.prefix
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

func (c *CachedClient) Subjects(ctx context.Context) (models.SubjectSchema, error) {
	var schema models.SubjectSchema
	err := c.cached(ctx, c.key("subjects"), &schema, func() (interface{}, error) {
		return c.next.Subjects(ctx)
	})
	return schema, err
}

func (c *CachedClient) Institutions(ctx context.Context) ([]string, error) {
	var ids []string
	err := c.cached(ctx, c.key("institutions"), &ids, func() (interface{}, error) {
		return c.next.Institutions(ctx)
	})
	return ids, err
}

func (c *CachedClient) Programs(ctx context.Context, institution string) ([]models.Program, error) {
	var programs []models.Program
	err := c.cached(ctx, c.key("programs", institution), &programs, func() (interface{}, error) {
		return c.next.Programs(ctx, institution)
	})
	return programs, err
}

func (c *CachedClient) Compute(ctx context.Context, req models.EligibilityRequest) ([]byte, error) {
	return c.next.Compute(ctx, req)
}

func (c *CachedClient) cached(ctx context.Context, key string, out interface{}, load func() (interface{}, error)) error {
	backend := c.cache.Backend()

	data, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(data, out); jsonErr == nil {
			metrics.CacheLookupsTotal.WithLabelValues(backend, "hit").Inc()
			return nil
		}
		c.logger.Warn("discarding undecodable cache entry", map[string]interface{}{"key": key})
		_ = c.cache.Del(ctx, key)
		metrics.CacheLookupsTotal.WithLabelValues(backend, "corrupt").Inc()
	case errors.Is(err, cache.ErrMiss):
		metrics.CacheLookupsTotal.WithLabelValues(backend, "miss").Inc()
	default:
		metrics.CacheLookupsTotal.WithLabelValues(backend, "error").Inc()
		c.logger.Warn("cache lookup failed", map[string]interface{}{"key": key, "error": err})
	}

	value, err := load()
	if err != nil {
		return err
	}

	data, err = json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("cache store failed", map[string]interface{}{"key": key, "error": err})
	}
	return json.Unmarshal(data, out)
}
