package security

import (
	"container/list"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterEntry tracks one identifier's limiter and its last access time.
type limiterEntry struct {
	identifier string
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter provides per-identifier token-bucket rate limiting with LRU
// eviction so the tracked-identifier set cannot grow without bound.
type RateLimiter struct {
	limiters map[string]*list.Element
	lruList  *list.List // front = most recently used
	mu       sync.Mutex

	rate       int
	burst      int
	maxEntries int
	logger     *slog.Logger

	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	stopOnce        sync.Once
}

// NewRateLimiter creates a rate limiter allowing requestsPerSecond with the
// given burst per identifier. At most 10,000 identifiers are tracked; least
// recently used entries are evicted beyond that. A background goroutine
// drops limiters idle for 30 minutes; call Stop to end it.
func NewRateLimiter(requestsPerSecond, burst int, logger *slog.Logger) *RateLimiter {
	if logger == nil {
		logger = slog.Default()
	}
	rl := &RateLimiter{
		limiters:        make(map[string]*list.Element),
		lruList:         list.New(),
		rate:            requestsPerSecond,
		burst:           burst,
		maxEntries:      10000,
		logger:          logger,
		cleanupInterval: 5 * time.Minute,
		stopCleanup:     make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Allow reports whether a request from the given identifier is allowed.
func (rl *RateLimiter) Allow(identifier string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if elem, ok := rl.limiters[identifier]; ok {
		rl.lruList.MoveToFront(elem)
		entry := elem.Value.(*limiterEntry)
		entry.lastAccess = time.Now()
		return entry.limiter.Allow()
	}

	if rl.maxEntries > 0 && len(rl.limiters) >= rl.maxEntries {
		rl.evictLRU()
	}

	entry := &limiterEntry{
		identifier: identifier,
		limiter:    rate.NewLimiter(rate.Limit(rl.rate), rl.burst),
		lastAccess: time.Now(),
	}
	rl.limiters[identifier] = rl.lruList.PushFront(entry)
	return entry.limiter.Allow()
}

// evictLRU removes the least recently used entry. Caller holds the mutex.
func (rl *RateLimiter) evictLRU() {
	elem := rl.lruList.Back()
	if elem == nil {
		return
	}
	entry := elem.Value.(*limiterEntry)
	delete(rl.limiters, entry.identifier)
	rl.lruList.Remove(elem)
	rl.logger.Debug("rate limiter LRU eviction",
		"identifier", entry.identifier,
		"current_entries", len(rl.limiters))
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.Cleanup(30 * time.Minute)
		case <-rl.stopCleanup:
			return
		}
	}
}

// Cleanup removes limiters idle for longer than maxIdleTime.
func (rl *RateLimiter) Cleanup(maxIdleTime time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	removed := 0
	var next *list.Element
	for elem := rl.lruList.Front(); elem != nil; elem = next {
		next = elem.Next()
		entry := elem.Value.(*limiterEntry)
		if now.Sub(entry.lastAccess) > maxIdleTime {
			delete(rl.limiters, entry.identifier)
			rl.lruList.Remove(elem)
			removed++
		}
	}
	if removed > 0 {
		rl.logger.Debug("rate limiter cleanup",
			"removed", removed,
			"remaining", len(rl.limiters))
	}
}

// Len returns the number of identifiers currently tracked.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// Stop ends the background cleanup goroutine. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCleanup) })
}
