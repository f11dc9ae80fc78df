package source

import (
	"context"
	"time"

	"github.com/penwyp/go-pkviz/internal/core/cache"
	"github.com/penwyp/go-pkviz/internal/core/model"
	"github.com/penwyp/go-pkviz/internal/metrics"
	"github.com/penwyp/go-pkviz/internal/util"
)

// CachedSource serves repeated queries from a bounded TTL cache and records
// query metrics. Failures are never cached.
type CachedSource struct {
	inner   Source
	cache   *cache.TableCache
	metrics *metrics.Metrics
}

// NewCachedSource wraps inner. Either cache or m may be nil.
func NewCachedSource(inner Source, tc *cache.TableCache, m *metrics.Metrics) *CachedSource {
	return &CachedSource{inner: inner, cache: tc, metrics: m}
}

func (s *CachedSource) Query(ctx context.Context, q Query) (*model.Table, error) {
	key := cache.Key(q.Table, q.IDs)
	if s.cache != nil {
		if t, ok := s.cache.Get(key); ok {
			s.metrics.CacheLookup(true)
			return t, nil
		}
		s.metrics.CacheLookup(false)
	}

	start := time.Now()
	t, err := s.inner.Query(ctx, q)
	elapsed := time.Since(start)
	s.metrics.ObserveQuery(q.Table, elapsed, err)
	if err != nil {
		util.LogWarnf("source query %s failed after %s: %v", key, util.FormatDuration(elapsed), err)
		return nil, err
	}
	util.LogDebugf("source query %s returned %d rows in %s", key, t.Len(), util.FormatDuration(elapsed))

	if s.cache != nil {
		s.cache.Set(key, t)
	}
	return t, nil
}

// Invalidate drops every cached result, e.g. after the backing files changed.
func (s *CachedSource) Invalidate() {
	if s.cache != nil {
		s.cache.Clear()
	}
}

func (s *CachedSource) Close() error { return s.inner.Close() }
