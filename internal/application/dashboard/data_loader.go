package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/penwyp/go-pkviz/internal/core/cache"
	"github.com/penwyp/go-pkviz/internal/core/model"
	"github.com/penwyp/go-pkviz/internal/data/source"
	"github.com/penwyp/go-pkviz/internal/metrics"
	"github.com/penwyp/go-pkviz/internal/util"
)

// DataLoader queries the configured source through the table cache
type DataLoader struct {
	source  *source.CachedSource
	timeout time.Duration
}

// NewDataLoader opens the source named by the config DSN
func NewDataLoader(config *Config, m *metrics.Metrics) (*DataLoader, error) {
	src, err := source.Open(config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open data source: %w", err)
	}
	return NewDataLoaderWithSource(src, config, m), nil
}

// NewDataLoaderWithSource wraps an already opened source
func NewDataLoaderWithSource(src source.Source, config *Config, m *metrics.Metrics) *DataLoader {
	var tc *cache.TableCache
	if config.CacheEntries > 0 {
		tc = cache.NewTableCache(config.CacheEntries, config.CacheTTL)
	}
	return &DataLoader{
		source:  source.NewCachedSource(src, tc, m),
		timeout: config.QueryTimeout,
	}
}

func (dl *DataLoader) Load(ctx context.Context, table string, ids []string) (*model.Table, error) {
	if dl.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, dl.timeout)
		defer cancel()
	}

	start := time.Now()
	t, err := dl.source.Query(ctx, source.Query{Table: table, IDs: ids})
	if err != nil {
		return nil, err
	}
	util.LogInfo("Loaded table",
		util.Field{Key: "table", Value: t.Schema.Table},
		util.Field{Key: "ids", Value: len(ids)},
		util.Field{Key: "rows", Value: t.Len()},
		util.Field{Key: "elapsed", Value: util.FormatDuration(time.Since(start))})
	return t, nil
}

func (dl *DataLoader) Invalidate() {
	dl.source.Invalidate()
}

func (dl *DataLoader) Close() error {
	return dl.source.Close()
}
