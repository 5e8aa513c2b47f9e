// Package pagecache stores rendered document fragments in a key-value store.
package pagecache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/folio/internal/db"
	"github.com/kailas-cloud/folio/internal/domain"
)

var keyPrefix = domain.KeyPrefix + "page:"

// store is the consumer interface for the page cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	Del(ctx context.Context, keys ...string) (int64, error)
}

// Cache keeps rendered fragments per dataset and docID.
// Store failures are logged and treated as misses.
type Cache struct {
	store      store
	dataset    string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a page cache for one dataset.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	s store,
	dataset string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Cache {
	return &Cache{
		store:      s,
		dataset:    dataset,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Get returns the cached fragment of docID.
func (c *Cache) Get(ctx context.Context, docID int) (string, bool) {
	key := c.key(docID)
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached page", zap.String("key", key), zap.Error(err))
		}
		c.incCache("miss")
		return "", false
	}
	if len(data) == 0 {
		c.incCache("miss")
		return "", false
	}
	c.incCache("hit")
	return string(data), true
}

// Put stores the fragment of docID.
func (c *Cache) Put(ctx context.Context, docID int, fragment string) {
	key := c.key(docID)
	if err := c.store.SetWithTTL(ctx, key, []byte(fragment), c.ttl); err != nil {
		c.logger.Warn("Failed to cache page", zap.String("key", key), zap.Error(err))
	}
}

// Purge removes every cached fragment of the dataset and returns how many
// keys were deleted.
func (c *Cache) Purge(ctx context.Context) (int64, error) {
	keys, err := c.store.Scan(ctx, c.prefix()+"*")
	if err != nil {
		return 0, fmt.Errorf("scan cached pages: %w", err)
	}
	n, err := c.store.Del(ctx, keys...)
	if err != nil {
		return 0, fmt.Errorf("delete cached pages: %w", err)
	}
	return n, nil
}

func (c *Cache) prefix() string {
	return keyPrefix + c.dataset + ":"
}

func (c *Cache) key(docID int) string {
	return c.prefix() + strconv.Itoa(docID)
}

func (c *Cache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
