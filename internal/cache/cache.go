// internal/cache/cache.go
//
// Package cache is the TTL result cache keyed by normalized intent. Entries
// are stored without a store-level expiration; freshness is decided on read
// against the entry's stored timestamp, so a stale entry survives until the
// next recompute overwrites it.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sort"
	"time"

	stderrors "shopscout/internal/common/errors"
	"shopscout/internal/common/logger"
	"shopscout/internal/common/metrics"
	"shopscout/internal/models"
)

// Store is the persistence contract the cache runs over.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
}

type Cache struct {
	store  Store
	ttl    time.Duration
	now    func() time.Time
	logger logger.Logger
}

func New(store Store, ttl time.Duration, log logger.Logger) *Cache {
	return &Cache{
		store:  store,
		ttl:    ttl,
		now:    time.Now,
		logger: log.WithFields(map[string]interface{}{"component": "cache"}),
	}
}

// Key derives the cache key from the scoring-relevant intent fields. The
// canonical form is a map serialized by encoding/json, which sorts keys at
// every level, so field assignment order cannot change the key.
func Key(intent models.Intent) string {
	conditions := make([]string, 0, len(intent.ConditionOk))
	for _, c := range intent.ConditionOk {
		conditions = append(conditions, string(c))
	}
	sort.Strings(conditions)

	canonical := map[string]interface{}{
		"q":          intent.SearchQuery,
		"budget":     intent.BudgetLei,
		"sizeMin":    intent.SizeMin,
		"sizeMax":    intent.SizeMax,
		"category":   string(intent.Category),
		"conditions": conditions,
	}

	payload, _ := json.Marshal(canonical)
	h := fnv.New32a()
	h.Write(payload)
	return fmt.Sprintf("k:%08x", h.Sum32())
}

// Get returns the cached result when a fresh entry exists. An expired entry
// counts as a miss and is left in place for the caller to overwrite.
func (c *Cache) Get(ctx context.Context, key string) (*models.CacheEntry, bool) {
	raw, found, err := c.store.Get(ctx, key)
	if err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("cache read failed", map[string]interface{}{
			"key":   key,
			"error": stderrors.NewCacheReadFailedError(err).Error(),
		})
		return nil, false
	}
	if !found {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}

	var entry models.CacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("cache entry unreadable", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil, false
	}

	// An entry is fresh strictly under the TTL; at exactly TTL it is stale.
	age := c.now().UnixMilli() - entry.StoredAtEpochMs
	if age < 0 || age >= c.ttl.Milliseconds() {
		metrics.CacheLookups.WithLabelValues("expired").Inc()
		return nil, false
	}

	metrics.CacheLookups.WithLabelValues("hit").Inc()
	entry.Result.AgeSeconds = age / 1000
	return &entry, true
}

// Put stores a result under key with the current write timestamp. Failures
// are logged and swallowed; caching is never worth failing a request.
func (c *Cache) Put(ctx context.Context, key string, result models.SearchResult) {
	entry := models.CacheEntry{
		Key:             key,
		StoredAtEpochMs: c.now().UnixMilli(),
		Result:          result,
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		c.logger.Error("cache entry marshal failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return
	}

	if err := c.store.Put(ctx, key, string(payload)); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{
			"key":   key,
			"error": stderrors.NewCacheWriteFailedError(err).Error(),
		})
	}
}

// SetClock overrides the cache clock. Test hook.
func (c *Cache) SetClock(now func() time.Time) {
	c.now = now
}
