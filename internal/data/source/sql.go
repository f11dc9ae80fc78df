package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/penwyp/go-pkviz/internal/core/model"
	"github.com/penwyp/go-pkviz/internal/util"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver
)

// Driver names registered with database/sql.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// SQLOptions tunes an SQLSource.
type SQLOptions struct {
	// SchemaPrefix qualifies table names, e.g. "DS3_USERDATA".
	SchemaPrefix string
	MaxOpenConns int
}

// SQLSource queries a relational store through database/sql. The pool is
// shared by every session.
type SQLSource struct {
	db     *sql.DB
	driver string
	opts   SQLOptions
}

// OpenSQL opens and pings the store.
func OpenSQL(driver, dsn string, opts SQLOptions) (*SQLSource, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, &UpstreamError{Source: driver, Table: "-", Err: fmt.Errorf("ping: %w", err)}
	}
	return NewSQLSource(db, driver, opts), nil
}

// NewSQLSource wraps an existing pool.
func NewSQLSource(db *sql.DB, driver string, opts SQLOptions) *SQLSource {
	return &SQLSource{db: db, driver: driver, opts: opts}
}

// DB exposes the underlying pool for tests and fixtures.
func (s *SQLSource) DB() *sql.DB { return s.db }

func (s *SQLSource) Close() error { return s.db.Close() }

// Query selects the schema columns of q.Table, optionally restricted with
// an IN bind list on the id column.
func (s *SQLSource) Query(ctx context.Context, q Query) (*model.Table, error) {
	schema, err := schemaFor(q.Table)
	if err != nil {
		return nil, err
	}
	stmt, args := s.buildQuery(schema, q.IDs)
	util.LogDebugf("SQLSource: %s args=%d", stmt, len(args))

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, &UpstreamError{Source: s.driver, Table: schema.Table, Err: err}
	}
	defer func() { _ = rows.Close() }()

	records := make([]model.Record, 0)
	skipped := 0
	for rows.Next() {
		r, ok, err := scanRecord(rows, schema)
		if err != nil {
			return nil, &UpstreamError{Source: s.driver, Table: schema.Table, Err: err}
		}
		if !ok {
			skipped++
			continue
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &UpstreamError{Source: s.driver, Table: schema.Table, Err: err}
	}
	if skipped > 0 {
		util.LogWarn("Skipped rows without a time value",
			util.Field{Key: "table", Value: schema.Table},
			util.Field{Key: "column", Value: schema.TimeColumn},
			util.Field{Key: "rows", Value: skipped})
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", schema.Table, ErrNoRows)
	}
	return model.NewTable(schema, records), nil
}

func (s *SQLSource) buildQuery(schema model.Schema, ids []string) (string, []any) {
	table := schema.Table
	if s.opts.SchemaPrefix != "" {
		table = s.opts.SchemaPrefix + "." + table
	}
	stmt := fmt.Sprintf("SELECT %s FROM %s", strings.Join(schema.Columns(), ", "), table)
	if len(ids) == 0 {
		return stmt, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = s.placeholder(i + 1)
		args[i] = id
	}
	stmt += fmt.Sprintf(" WHERE %s IN (%s)", schema.IDColumn, strings.Join(placeholders, ", "))
	return stmt, args
}

func (s *SQLSource) placeholder(n int) string {
	if s.driver == DriverPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// scanRecord reports ok=false for a row whose time column is NULL.
func scanRecord(rows *sql.Rows, schema model.Schema) (model.Record, bool, error) {
	dims := make([]sql.NullString, len(schema.Dimensions))
	var t sql.NullFloat64
	measures := make([]sql.NullFloat64, len(schema.Measures))

	dest := make([]any, 0, len(dims)+1+len(measures))
	for i := range dims {
		dest = append(dest, &dims[i])
	}
	dest = append(dest, &t)
	for i := range measures {
		dest = append(dest, &measures[i])
	}
	if err := rows.Scan(dest...); err != nil {
		return model.Record{}, false, fmt.Errorf("scan: %w", err)
	}
	if !t.Valid {
		return model.Record{}, false, nil
	}

	r := model.Record{
		Dims:   make(map[model.Dimension]string, len(dims)),
		Time:   t.Float64,
		Values: make(map[model.Measure]float64, len(measures)),
	}
	for i, d := range schema.Dimensions {
		if dims[i].Valid {
			r.Dims[d] = dims[i].String
		}
	}
	for i, m := range schema.Measures {
		if measures[i].Valid {
			r.Values[m] = measures[i].Float64
		}
	}
	normalizeRecord(&r)
	return r, true, nil
}
