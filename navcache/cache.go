// Package navcache keeps recently fetched NAV series in memory.
//
// A Cache is an explicit object: callers create one and pass it to whatever needs it.
// Concurrent misses for the same scheme share a single fetch.
package navcache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/etnz/navsim"
	"github.com/etnz/navsim/mfapi"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Fetcher fetches a scheme from a provider. *mfapi.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, code string) (*mfapi.Scheme, error)
}

// Observer is notified of every lookup, typically to count them.
type Observer interface {
	Hit(code string)
	Miss(code string)
}

// Entry is a normalized scheme.
type Entry struct {
	Meta      mfapi.Meta
	Series    navsim.Series
	Dropped   int // invalid provider records left out of Series
	FetchedAt time.Time
}

// Stats counts lookups since the cache was created.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// Cache is a TTL cache of NAV series keyed by scheme code. It is safe for concurrent use.
type Cache struct {
	fetcher    Fetcher
	ttl        time.Duration
	maxEntries int
	logger     *zap.Logger
	observer   Observer
	now        func() time.Time

	group singleflight.Group

	mu           sync.Mutex
	entries      map[string]*Entry
	hits, misses int64
}

// New returns an empty cache on fetcher.
//
// Entries older than ttl are fetched again; a ttl <= 0 keeps them forever. When more than
// maxEntries are held, the oldest fetched is evicted; maxEntries <= 0 means no limit.
func New(fetcher Fetcher, ttl time.Duration, maxEntries int, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		fetcher:    fetcher,
		ttl:        ttl,
		maxEntries: maxEntries,
		logger:     logger,
		now:        time.Now,
		entries:    make(map[string]*Entry),
	}
}

// SetObserver registers o to be notified of hits and misses.
func (c *Cache) SetObserver(o Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer = o
}

// Get returns the scheme identified by code, fetching it when it is missing or expired.
func (c *Cache) Get(ctx context.Context, code string) (*Entry, error) {
	if e, ok := c.lookup(code); ok {
		return e, nil
	}

	ch := c.group.DoChan(code, func() (any, error) {
		// the fetch is shared: it must not be canceled by the first caller.
		return c.fetch(context.WithoutCancel(ctx), code)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Entry), nil
	}
}

// lookup returns a fresh entry and counts the lookup.
func (c *Cache) lookup(code string) (*Entry, bool) {
	c.mu.Lock()
	e, ok := c.entries[code]
	if ok && c.expired(e) {
		delete(c.entries, code)
		ok = false
	}
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	o := c.observer
	c.mu.Unlock()

	if o != nil {
		if ok {
			o.Hit(code)
		} else {
			o.Miss(code)
		}
	}
	return e, ok
}

func (c *Cache) expired(e *Entry) bool {
	return c.ttl > 0 && c.now().Sub(e.FetchedAt) >= c.ttl
}

func (c *Cache) fetch(ctx context.Context, code string) (*Entry, error) {
	start := c.now()
	scheme, err := c.fetcher.Fetch(ctx, code)
	if err != nil {
		return nil, err
	}
	series, dropped, err := navsim.Normalize(scheme.Data)
	if err != nil {
		return nil, fmt.Errorf("scheme %s: %w", code, err)
	}
	e := &Entry{Meta: scheme.Meta, Series: series, Dropped: dropped, FetchedAt: c.now()}
	c.logger.Info("fetched NAV series",
		zap.String("code", code),
		zap.Int("points", series.Len()),
		zap.Int("dropped", dropped),
		zap.Duration("elapsed", c.now().Sub(start)),
	)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[code] = e
	c.evict()
	return e, nil
}

// evict removes the oldest entries beyond maxEntries. c.mu must be held.
func (c *Cache) evict() {
	for c.maxEntries > 0 && len(c.entries) > c.maxEntries {
		var oldest string
		for code, e := range c.entries {
			if oldest == "" || e.FetchedAt.Before(c.entries[oldest].FetchedAt) {
				oldest = code
			}
		}
		delete(c.entries, oldest)
		c.logger.Debug("evicted NAV series", zap.String("code", oldest))
	}
}

// Invalidate drops code from the cache.
func (c *Cache) Invalidate(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, code)
}

// Stats returns the lookup counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Entries: len(c.entries)}
}
