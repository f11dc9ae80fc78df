// Package source loads source tables from a relational store or CSV files.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/penwyp/go-pkviz/internal/core/model"
)

// ErrNoRows is returned when a query matches nothing.
var ErrNoRows = errors.New("no rows returned")

// Query selects a table and optionally restricts it to a list of values of
// the table's id column.
type Query struct {
	Table string
	IDs   []string
}

// Source provides source tables. Implementations must be safe for
// concurrent use.
type Source interface {
	Query(ctx context.Context, q Query) (*model.Table, error)
	Close() error
}

// UpstreamError wraps a failure of the backing store.
type UpstreamError struct {
	Source string
	Table  string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s source: query %s: %v", e.Source, e.Table, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsUnavailable reports whether err means the data could not be obtained
// from the store (unreachable store or no rows).
func IsUnavailable(err error) bool {
	var upstream *UpstreamError
	return errors.As(err, &upstream) || errors.Is(err, ErrNoRows)
}

// Open creates a source from a DSN:
//
//	postgres://... or postgresql://...  Postgres through pgx
//	sqlite://path or file:...          SQLite
//	csv://path or a .csv file/directory CSV files
func Open(dsn string) (Source, error) {
	switch {
	case dsn == "":
		return nil, fmt.Errorf("empty data source DSN")
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return OpenSQL(DriverPostgres, dsn, SQLOptions{})
	case strings.HasPrefix(dsn, "sqlite://"):
		return OpenSQL(DriverSQLite, strings.TrimPrefix(dsn, "sqlite://"), SQLOptions{})
	case strings.HasPrefix(dsn, "file:"):
		return OpenSQL(DriverSQLite, dsn, SQLOptions{})
	case strings.HasPrefix(dsn, "csv://"):
		return NewCSVSource(strings.TrimPrefix(dsn, "csv://"))
	}

	if info, err := os.Stat(dsn); err == nil && (info.IsDir() || strings.HasSuffix(strings.ToLower(dsn), ".csv")) {
		return NewCSVSource(dsn)
	}
	return nil, fmt.Errorf("unsupported data source DSN %q", dsn)
}

// normalizeRecord applies the id conventions of the source tables.
func normalizeRecord(r *model.Record) {
	if v, ok := r.Dims[model.DimCompound]; ok {
		r.Dims[model.DimCompound] = model.StdCompoundID(strings.TrimSpace(v))
	}
	if v, ok := r.Dims[model.DimStrain]; ok {
		r.Dims[model.DimStrain] = strings.TrimSpace(v)
	}
}

func schemaFor(table string) (model.Schema, error) {
	schema, ok := model.LookupSchema(table)
	if !ok {
		return model.Schema{}, fmt.Errorf("unknown table %q", table)
	}
	return schema, nil
}
