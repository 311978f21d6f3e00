package diagram

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
)

// DefaultCacheSize is the number of rendered diagrams kept in memory.
const DefaultCacheSize = 256

// Store persists rendered markup across runs. A Store error is never fatal:
// the Cache logs it and treats the lookup as a miss.
type Store interface {
	Get(ctx context.Context, key string) (markup string, ok bool, err error)
	Put(ctx context.Context, key, markup string) error
	Close() error
}

// Cache maps diagram keys to rendered markup. Entries are never invalidated:
// a key is derived from the full source, so a cached entry can only ever be
// the rendering of that exact source.
type Cache struct {
	mem   *lru.Cache[string, string]
	store Store
	log   *logrus.Logger
}

// NewCache creates a cache holding up to size entries in memory, backed by
// store when it is non-nil. A size <= 0 selects DefaultCacheSize.
func NewCache(size int, store Store, logger *logrus.Logger) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	mem, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("creating diagram cache: %w", err)
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &Cache{mem: mem, store: store, log: logger}, nil
}

// Get returns the markup cached for key. Persistent hits are promoted into
// memory.
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	if markup, ok := c.mem.Get(key); ok {
		return markup, true
	}
	if c.store == nil {
		return "", false
	}

	markup, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.WithFields(logrus.Fields{"key": key, "error": err}).Warn("diagram store lookup failed")
		return "", false
	}
	if !ok {
		return "", false
	}
	c.mem.Add(key, markup)
	return markup, true
}

// Add records markup for key in memory and in the store.
func (c *Cache) Add(ctx context.Context, key, markup string) {
	c.mem.Add(key, markup)
	if c.store == nil {
		return
	}
	if err := c.store.Put(ctx, key, markup); err != nil {
		c.log.WithFields(logrus.Fields{"key": key, "error": err}).Warn("diagram store write failed")
	}
}

// Len returns the number of entries held in memory.
func (c *Cache) Len() int {
	return c.mem.Len()
}
