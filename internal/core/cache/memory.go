package cache

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/penwyp/go-pkviz/internal/core/model"
	"github.com/penwyp/go-pkviz/internal/util"
)

// TableCacheEntry is a cached query result with access tracking
type TableCacheEntry struct {
	Table        *model.Table
	StoredAt     time.Time
	LastAccessed time.Time
}

// CacheStats is a point-in-time view of cache usage
type CacheStats struct {
	Entries   int
	Hits      int64
	Misses    int64
	Evictions int64
}

// TableCache is a bounded, TTL-based cache of source query results shared
// by the sessions of one process.
type TableCache struct {
	mu         sync.Mutex
	entries    map[string]*TableCacheEntry
	maxEntries int
	ttl        time.Duration
	now        func() time.Time

	hits      int64
	misses    int64
	evictions int64
}

// NewTableCache creates a cache holding at most maxEntries results for ttl.
// A non-positive ttl disables expiry.
func NewTableCache(maxEntries int, ttl time.Duration) *TableCache {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &TableCache{
		entries:    make(map[string]*TableCacheEntry),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Key builds the cache key of a table query with an optional id list.
func Key(table string, ids []string) string {
	if len(ids) == 0 {
		return table
	}
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	return table + "?" + strings.Join(sorted, ",")
}

func (tc *TableCache) Get(key string) (*model.Table, bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	entry, ok := tc.entries[key]
	if !ok {
		tc.misses++
		return nil, false
	}
	now := tc.now()
	if tc.expired(entry, now) {
		delete(tc.entries, key)
		tc.misses++
		util.LogDebugf("TableCache: %s expired after %s", key, now.Sub(entry.StoredAt))
		return nil, false
	}
	entry.LastAccessed = now
	tc.hits++
	return entry.Table, true
}

func (tc *TableCache) Set(key string, table *model.Table) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	now := tc.now()
	if _, exists := tc.entries[key]; !exists && len(tc.entries) >= tc.maxEntries {
		tc.evictLocked(now)
	}
	tc.entries[key] = &TableCacheEntry{Table: table, StoredAt: now, LastAccessed: now}
}

// Invalidate drops a single key
func (tc *TableCache) Invalidate(key string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	delete(tc.entries, key)
}

// Clear drops every entry, e.g. after the backing file changed
func (tc *TableCache) Clear() {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	n := len(tc.entries)
	tc.entries = make(map[string]*TableCacheEntry)
	util.LogInfof("TableCache: cleared %d entries", n)
}

func (tc *TableCache) Stats() CacheStats {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return CacheStats{
		Entries:   len(tc.entries),
		Hits:      tc.hits,
		Misses:    tc.misses,
		Evictions: tc.evictions,
	}
}

func (tc *TableCache) expired(entry *TableCacheEntry, now time.Time) bool {
	return tc.ttl > 0 && now.Sub(entry.StoredAt) >= tc.ttl
}

// evictLocked removes expired entries first, then the least recently used one.
func (tc *TableCache) evictLocked(now time.Time) {
	for key, entry := range tc.entries {
		if tc.expired(entry, now) {
			delete(tc.entries, key)
			tc.evictions++
		}
	}
	if len(tc.entries) < tc.maxEntries {
		return
	}

	var oldestKey string
	var oldest time.Time
	for key, entry := range tc.entries {
		if oldestKey == "" || entry.LastAccessed.Before(oldest) {
			oldestKey = key
			oldest = entry.LastAccessed
		}
	}
	if oldestKey != "" {
		delete(tc.entries, oldestKey)
		tc.evictions++
		util.LogDebugf("TableCache: evicted %s", oldestKey)
	}
}
