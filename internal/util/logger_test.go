package util

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerRequiresDestination(t *testing.T) {
	_, err := NewLogger(LoggerConfig{Level: "info"})
	assert.Error(t, err)
}

func TestFileLoggerCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "logs", "app.log")
	logger, err := NewLogger(LoggerConfig{Level: "debug", File: path})
	require.NoError(t, err)

	logger.Info("loaded table", Field{Key: "rows", Value: 12}, Field{Key: "table", Value: "SB_CONC_DATA"})
	logger.Debugf("cache %s", "hit")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[INFO] loaded table rows=12 table=SB_CONC_DATA")
	assert.Contains(t, lines[1], "[DEBUG] cache hit")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{level: LevelWarn, fields: map[string]interface{}{}, format: FormatText}
	logger.AddOutput(NewConsoleOutput(&buf, FormatText))

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "[WARN] shown")
}

func TestJSONFormatAndContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{level: LevelDebug, fields: map[string]interface{}{}, format: FormatJSON}
	logger.AddOutput(NewConsoleOutput(&buf, FormatJSON))

	ctx := ContextWithSessionID(context.Background(), "abc")
	ctx = ContextWithRequestID(ctx, "req-1")
	logger.WithContext(ctx).Info("render")

	var entry LogEntry
	require.NoError(t, sonic.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "render", entry.Message)
	assert.Equal(t, "abc", entry.Fields["session_id"])
	assert.Equal(t, "req-1", entry.Fields["request_id"])
}

func TestGlobalLoggerHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{level: LevelDebug, fields: map[string]interface{}{}, format: FormatText}
	logger.AddOutput(NewConsoleOutput(&buf, FormatText))
	SetLogger(logger)
	defer SetLogger(nil)

	LogInfo("one", Field{Key: "k", Value: "v"})
	LogWarnf("two %d", 2)
	LogErrorf("three")

	out := buf.String()
	assert.Contains(t, out, "[INFO] one k=v")
	assert.Contains(t, out, "[WARN] two 2")
	assert.Contains(t, out, "[ERROR] three")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, parseLogLevel("DEBUG"))
	assert.Equal(t, LevelWarn, parseLogLevel("warning"))
	assert.Equal(t, LevelInfo, parseLogLevel("bogus"))
	assert.Equal(t, "ERROR", levelToString(LevelError))
}
