package bis

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/kapu/azerite-bot-go/internal/constants"
	"github.com/kapu/azerite-bot-go/internal/domain"
	"github.com/kapu/azerite-bot-go/internal/service/cache"
	"github.com/kapu/azerite-bot-go/internal/service/report"
	"go.uber.org/zap"
)

// Fetcher loads one build's gear from the report.
type Fetcher interface {
	Fetch(ctx context.Context, key domain.BuildKey) (domain.GearSet, error)
}

// SnapshotStore mirrors cache entries outside the process.
type SnapshotStore interface {
	LoadGear(ctx context.Context, key domain.BuildKey) (cache.GearSnapshot, bool, error)
	StoreGear(ctx context.Context, key domain.BuildKey, snap cache.GearSnapshot, ttl time.Duration) error
	ClearGear(ctx context.Context) (int64, error)
}

// FetchMode controls whether empty results are remembered.
type FetchMode int

const (
	// ModeRequest stores every successful fetch, empty or not.
	ModeRequest FetchMode = iota
	// ModeScan is used by the refresh sweep and only stores builds with gear.
	ModeScan
)

// Entry is one cached build. It is replaced wholesale, never edited.
type Entry struct {
	Gear      domain.GearSet
	CreatedAt time.Time
}

// Expired reports whether the entry has reached its TTL at now.
func (e Entry) Expired(now time.Time, ttl time.Duration) bool {
	return !now.Before(e.CreatedAt.Add(ttl))
}

// ResultCache holds per-build gear with a fixed TTL. Concurrent misses on the
// same key may both fetch; the last writer wins.
type ResultCache struct {
	fetcher Fetcher
	store   SnapshotStore
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger

	mu      sync.RWMutex
	entries map[domain.BuildKey]Entry
}

// NewResultCache creates a cache. store may be nil.
func NewResultCache(fetcher Fetcher, store SnapshotStore, ttl time.Duration, logger *zap.Logger) *ResultCache {
	if ttl <= 0 {
		ttl = constants.CacheTTL.BISEntry
	}
	return &ResultCache{
		fetcher: fetcher,
		store:   store,
		ttl:     ttl,
		now:     time.Now,
		logger:  logger,
		entries: make(map[domain.BuildKey]Entry),
	}
}

// WithClock replaces the time source. Intended for tests.
func (c *ResultCache) WithClock(now func() time.Time) *ResultCache {
	c.now = now
	return c
}

// GetOrFetch returns an independent copy of the build's gear, fetching it on a
// miss. The returned error is informational: it is set when the fetch failed
// transiently, in which case the gear is empty and nothing was stored.
func (c *ResultCache) GetOrFetch(ctx context.Context, key domain.BuildKey, mode FetchMode) (domain.GearSet, error) {
	now := c.now()

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && !entry.Expired(now, c.ttl) {
		return entry.Gear.Clone(), nil
	}

	if mode == ModeRequest {
		if entry, ok := c.loadSnapshot(ctx, key, now); ok {
			return entry.Gear.Clone(), nil
		}
	}

	gear, err := c.fetcher.Fetch(ctx, key)
	if err != nil {
		if stderrors.Is(err, report.ErrNoLocator) {
			return domain.GearSet{}, nil
		}
		c.logger.Warn("BIS fetch failed",
			zap.String("build", key.String()),
			zap.Error(err),
		)
		return domain.GearSet{}, err
	}
	if gear == nil {
		gear = domain.GearSet{}
	}

	if mode == ModeScan && len(gear) == 0 {
		return domain.GearSet{}, nil
	}

	c.put(ctx, key, Entry{Gear: gear.Clone(), CreatedAt: c.now()})
	return gear.Clone(), nil
}

// Len returns the number of stored entries, expired ones included.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops every entry and its snapshot.
func (c *ResultCache) Clear(ctx context.Context) {
	c.mu.Lock()
	dropped := len(c.entries)
	c.entries = make(map[domain.BuildKey]Entry)
	c.mu.Unlock()

	if c.store != nil {
		if _, err := c.store.ClearGear(ctx); err != nil {
			c.logger.Warn("Failed to clear gear snapshots", zap.Error(err))
		}
	}
	c.logger.Info("BIS cache cleared", zap.Int("entries", dropped))
}

func (c *ResultCache) put(ctx context.Context, key domain.BuildKey, entry Entry) {
	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()

	if c.store == nil {
		return
	}
	snap := cache.GearSnapshot{Gear: entry.Gear, CreatedAt: entry.CreatedAt}
	if err := c.store.StoreGear(ctx, key, snap, c.ttl); err != nil {
		c.logger.Warn("Failed to store gear snapshot",
			zap.String("build", key.String()),
			zap.Error(err),
		)
	}
}

func (c *ResultCache) loadSnapshot(ctx context.Context, key domain.BuildKey, now time.Time) (Entry, bool) {
	if c.store == nil {
		return Entry{}, false
	}
	snap, found, err := c.store.LoadGear(ctx, key)
	if err != nil {
		c.logger.Warn("Failed to load gear snapshot",
			zap.String("build", key.String()),
			zap.Error(err),
		)
		return Entry{}, false
	}
	if !found {
		return Entry{}, false
	}

	entry := Entry{Gear: snap.Gear.Clone(), CreatedAt: snap.CreatedAt}
	if entry.Expired(now, c.ttl) {
		return Entry{}, false
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()

	c.logger.Debug("BIS entry restored from snapshot", zap.String("build", key.String()))
	return entry, true
}
