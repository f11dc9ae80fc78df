package source

import (
	"context"
	"fmt"
	"sync"

	"github.com/penwyp/go-pkviz/internal/core/model"
)

// MemorySource serves tables held in memory.
type MemorySource struct {
	mu     sync.RWMutex
	tables map[string]*model.Table
	err    error
}

func NewMemorySource(tables ...*model.Table) *MemorySource {
	s := &MemorySource{tables: make(map[string]*model.Table)}
	for _, t := range tables {
		s.Put(t)
	}
	return s
}

// Put replaces the table registered under its schema's table name.
func (s *MemorySource) Put(t *model.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[t.Schema.Table] = t
}

// FailWith makes every query fail with an UpstreamError wrapping err
// (nil restores normal behaviour).
func (s *MemorySource) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *MemorySource) Close() error { return nil }

func (s *MemorySource) Query(ctx context.Context, q Query) (*model.Table, error) {
	schema, err := schemaFor(q.Table)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, &UpstreamError{Source: "memory", Table: schema.Table, Err: s.err}
	}
	t, ok := s.tables[schema.Table]
	if !ok || t.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", schema.Table, ErrNoRows)
	}

	criteria := model.NewCriteria().WithSelection(schema.IDColumn, q.IDs...)
	records := make([]model.Record, 0, len(t.Records))
	for _, r := range t.Records {
		if criteria.Allows(schema.IDColumn, r.Dims[schema.IDColumn]) {
			records = append(records, r)
		}
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", schema.Table, ErrNoRows)
	}
	return model.NewTable(t.Schema, records), nil
}
