package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/penwyp/go-pkviz/internal/core/model"
)

// CSVSource serves tables from CSV files: either a directory holding one
// <TABLE>.csv per table, or a single file whose header decides its table.
type CSVSource struct {
	path  string
	isDir bool
}

func NewCSVSource(path string) (*CSVSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &UpstreamError{Source: "csv", Table: "-", Err: err}
	}
	return &CSVSource{path: path, isDir: info.IsDir()}, nil
}

// Path returns the file or directory being served.
func (s *CSVSource) Path() string { return s.path }

func (s *CSVSource) Close() error { return nil }

func (s *CSVSource) Query(ctx context.Context, q Query) (*model.Table, error) {
	schema, err := schemaFor(q.Table)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := s.resolve(schema)
	if err != nil {
		return nil, &UpstreamError{Source: "csv", Table: schema.Table, Err: err}
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, &UpstreamError{Source: "csv", Table: schema.Table, Err: err}
	}
	defer func() { _ = f.Close() }()

	table, err := ReadCSV(f, schema)
	if err != nil {
		var mismatch *model.SchemaMismatchError
		if errors.As(err, &mismatch) {
			return nil, err
		}
		return nil, &UpstreamError{Source: "csv", Table: schema.Table, Err: err}
	}

	if len(q.IDs) > 0 {
		criteria := model.NewCriteria().WithSelection(schema.IDColumn, q.IDs...)
		kept := table.Records[:0]
		for _, r := range table.Records {
			if criteria.Allows(schema.IDColumn, r.Dims[schema.IDColumn]) {
				kept = append(kept, r)
			}
		}
		table.Records = kept
	}
	if table.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", schema.Table, ErrNoRows)
	}
	return table, nil
}

func (s *CSVSource) resolve(schema model.Schema) (string, error) {
	if !s.isDir {
		return s.path, nil
	}
	for _, name := range []string{schema.Table + ".csv", strings.ToLower(schema.Table) + ".csv"} {
		candidate := filepath.Join(s.path, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no %s.csv in %s", schema.Table, s.path)
}

// ReadCSV parses a CSV stream into a table of the given schema. Columns may
// appear in any order and extra columns are ignored; every schema column
// must be present. Empty, "NA" and "NaN" measure cells are missing values.
func ReadCSV(r io.Reader, schema model.Schema) (*model.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, &model.SchemaMismatchError{Table: schema.Table, Column: schema.TimeColumn}
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range schema.Columns() {
		if _, ok := index[strings.ToUpper(col)]; !ok {
			return nil, &model.SchemaMismatchError{Table: schema.Table, Column: col}
		}
	}
	timeIdx := index[strings.ToUpper(schema.TimeColumn)]

	records := make([]model.Record, 0)
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		t, err := strconv.ParseFloat(strings.TrimSpace(row[timeIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s %q: %w", line, schema.TimeColumn, row[timeIdx], err)
		}
		rec := model.Record{
			Dims:   make(map[model.Dimension]string, len(schema.Dimensions)),
			Time:   t,
			Values: make(map[model.Measure]float64, len(schema.Measures)),
		}
		for _, d := range schema.Dimensions {
			if v := row[index[string(d)]]; v != "" {
				rec.Dims[d] = v
			}
		}
		for _, m := range schema.Measures {
			v, ok, err := parseMeasure(row[index[string(m)]])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid %s: %w", line, m, err)
			}
			if ok {
				rec.Values[m] = v
			}
		}
		normalizeRecord(&rec)
		records = append(records, rec)
	}
	return model.NewTable(schema, records), nil
}

func parseMeasure(cell string) (float64, bool, error) {
	cell = strings.TrimSpace(cell)
	switch strings.ToUpper(cell) {
	case "", "NA", "NAN", "NULL":
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}
