// Package casecache caches case lookups in a key-value store.
package casecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/caselens/internal/db"
	"github.com/kailas-cloud/caselens/internal/domain/casefile"
)

// Lookup fetches a case by docket number.
type Lookup interface {
	Case(ctx context.Context, docket string) (casefile.File, error)
}

// store is the consumer interface for the case cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedLookup caches successful case lookups for a fixed TTL.
// Failed lookups, including not-found, are never cached.
type CachedLookup struct {
	inner      Lookup
	store      store
	prefix     string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner Lookup,
	s store,
	keyPrefix string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedLookup {
	return &CachedLookup{
		inner:      inner,
		store:      s,
		prefix:     keyPrefix,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Case returns a cached case file or calls the inner lookup.
func (c *CachedLookup) Case(ctx context.Context, docket string) (casefile.File, error) {
	key := c.cacheKey(docket)

	if f, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return f, nil
	}

	c.incCache("miss")

	f, err := c.inner.Case(ctx, docket)
	if err != nil {
		return casefile.File{}, fmt.Errorf("lookup case: %w", err)
	}

	c.putToCache(ctx, key, f)
	return f, nil
}

func (c *CachedLookup) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedLookup) cacheKey(docket string) string {
	return c.prefix + "case:" + docket
}

func (c *CachedLookup) getFromCache(ctx context.Context, key string) (casefile.File, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached case", zap.String("key", key), zap.Error(err))
		}
		return casefile.File{}, false
	}
	if len(data) == 0 {
		return casefile.File{}, false
	}

	var cached cachedFile
	if err := json.Unmarshal(data, &cached); err != nil {
		c.logger.Warn("Failed to parse cached case", zap.String("key", key), zap.Error(err))
		return casefile.File{}, false
	}
	return cached.toDomain(), true
}

func (c *CachedLookup) putToCache(ctx context.Context, key string, f casefile.File) {
	data, err := json.Marshal(fromDomain(f))
	if err != nil {
		c.logger.Warn("Failed to encode case for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache case", zap.String("key", key), zap.Error(err))
	}
}
