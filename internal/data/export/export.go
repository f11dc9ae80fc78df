// Package export delivers CSV snapshots of a filtered table to a file,
// stdout or an S3 bucket.
package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/penwyp/go-pkviz/internal/core/model"
	"github.com/penwyp/go-pkviz/internal/presentation/formatter"
	"github.com/penwyp/go-pkviz/internal/util"
)

// Sink receives the encoded CSV bytes.
type Sink interface {
	Put(ctx context.Context, body []byte) error
	String() string
}

// Open picks a sink for dest: "-" is stdout, "s3://bucket/key" is S3 and
// anything else is a local file path.
func Open(ctx context.Context, dest string) (Sink, error) {
	switch {
	case dest == "" || dest == "-":
		return NewWriterSink(os.Stdout, "stdout"), nil
	case strings.HasPrefix(dest, "s3://"):
		bucket, key, err := ParseS3URL(dest)
		if err != nil {
			return nil, err
		}
		cfg := S3ConfigFromEnv()
		cfg.Bucket = bucket
		cfg.Key = key
		return NewS3Sink(ctx, cfg)
	default:
		return NewFileSink(dest), nil
	}
}

// Table writes table as CSV into sink.
func Table(ctx context.Context, sink Sink, table *model.Table) error {
	var buf bytes.Buffer
	if err := formatter.WriteTableCSV(&buf, table); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	if err := sink.Put(ctx, buf.Bytes()); err != nil {
		return fmt.Errorf("export to %s: %w", sink, err)
	}
	util.LogInfo("Exported table",
		util.Field{Key: "dest", Value: sink.String()},
		util.Field{Key: "rows", Value: table.Len()},
		util.Field{Key: "bytes", Value: buf.Len()})
	return nil
}

// FileSink writes to a local path, creating parent directories.
type FileSink struct {
	path string
}

func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

func (s *FileSink) Put(_ context.Context, body []byte) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, body, 0o644)
}

func (s *FileSink) String() string { return s.path }

type WriterSink struct {
	w    io.Writer
	name string
}

func NewWriterSink(w io.Writer, name string) *WriterSink {
	return &WriterSink{w: w, name: name}
}

func (s *WriterSink) Put(_ context.Context, body []byte) error {
	_, err := s.w.Write(body)
	return err
}

func (s *WriterSink) String() string { return s.name }
