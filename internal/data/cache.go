package data

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"momentum-backtest/internal/analysis"
	"momentum-backtest/internal/backtest"
)

const DefaultRunTTL = time.Hour

// StoredRun is a finished series run kept for later retrieval.
type StoredRun struct {
	ID        string
	Source    string
	Periods   int
	Assets    int
	Options   backtest.Options
	Result    *backtest.Result
	Stats     analysis.SeriesStats
	CreatedAt time.Time
	ExpiresAt time.Time
}

// RunCache keeps results of API runs in memory until they expire.
type RunCache struct {
	mu    sync.RWMutex
	store map[string]*StoredRun
	ttl   time.Duration
	now   func() time.Time

	stop chan struct{}
	once sync.Once
}

// NewRunCache creates a cache and starts its cleanup loop. Call Close to stop it.
func NewRunCache(ttl time.Duration) *RunCache {
	if ttl <= 0 {
		ttl = DefaultRunTTL
	}
	c := &RunCache{
		store: make(map[string]*StoredRun),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	go c.cleanup(cleanupInterval(ttl))
	return c
}

// Put stores run under a new id and returns it.
func (c *RunCache) Put(run *StoredRun) *StoredRun {
	if c == nil || run == nil {
		return run
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	run.ID = uuid.NewString()
	run.CreatedAt = now
	run.ExpiresAt = now.Add(c.ttl)
	c.store[run.ID] = run
	return run
}

// Get retrieves a stored run if it exists and has not expired.
func (c *RunCache) Get(id string) (*StoredRun, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	run, ok := c.store[id]
	if !ok || c.now().After(run.ExpiresAt) {
		return nil, false
	}
	return run, true
}

func (c *RunCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Clear removes all entries from the cache
func (c *RunCache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]*StoredRun)
}

func (c *RunCache) Close() {
	if c == nil {
		return
	}
	c.once.Do(func() { close(c.stop) })
}

// evict removes expired entries and reports how many were dropped.
func (c *RunCache) evict() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := 0
	for id, run := range c.store {
		if now.After(run.ExpiresAt) {
			delete(c.store, id)
			n++
		}
	}
	return n
}

func (c *RunCache) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.evict()
		case <-c.stop:
			return
		}
	}
}

func cleanupInterval(ttl time.Duration) time.Duration {
	every := ttl / 4
	if every > 5*time.Minute {
		every = 5 * time.Minute
	}
	if every < time.Second {
		every = time.Second
	}
	return every
}
