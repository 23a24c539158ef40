package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bufLogger returns a JSON logger writing into the returned buffer.
func bufLogger(level slog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})
	return slog.New(handler), &buf
}

func parseEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "output should be one JSON entry")
	return entry
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"", "debug", "invalid"} {
		if level != "" {
			t.Setenv("LOG_LEVEL", level)
		}
		assert.NotNil(t, NewLogger(), "LOG_LEVEL=%q", level)
		assert.NotNil(t, NewTextLogger(), "LOG_LEVEL=%q", level)
	}
}

func TestLogger_EmitsStructuredJSON(t *testing.T) {
	logger, buf := bufLogger(slog.LevelInfo)

	logger.Info("silver stage finished",
		"source", "pubmed",
		"bucket", "silver",
		"count", 42,
	)

	entry := parseEntry(t, buf)
	assert.Equal(t, "silver stage finished", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.NotEmpty(t, entry["time"])
	assert.Equal(t, "pubmed", entry["source"])
	assert.Equal(t, "silver", entry["bucket"])
	assert.Equal(t, float64(42), entry["count"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger, buf := bufLogger(slog.LevelInfo)

	logger.Debug("filtered out")
	logger.Info("kept")

	assert.NotContains(t, buf.String(), "filtered out")
	assert.Contains(t, buf.String(), "kept")
}

func TestLogger_OneJSONEntryPerLine(t *testing.T) {
	logger, buf := bufLogger(slog.LevelInfo)

	logger.Info("first")
	logger.Warn("second")
	logger.Error("third")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	for i, line := range lines {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "line %d", i+1)
		assert.NotEmpty(t, entry["msg"], "line %d", i+1)
		assert.NotEmpty(t, entry["level"], "line %d", i+1)
	}
}

func TestWithRunID(t *testing.T) {
	logger, buf := bufLogger(slog.LevelInfo)
	ctx := ContextWithRunID(context.Background(), "550e8400-e29b-41d4-a716-446655440000")

	WithRunID(ctx, logger).Info("run started")

	entry := parseEntry(t, buf)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", entry["run_id"])
}

func TestWithRunID_NoRunIDInContext(t *testing.T) {
	logger, buf := bufLogger(slog.LevelInfo)

	WithRunID(context.Background(), logger).Info("run started")

	assert.Contains(t, buf.String(), "run started")
	assert.NotContains(t, buf.String(), "run_id")
}

func TestRunIDFromContext(t *testing.T) {
	assert.Equal(t, "run-abc",
		RunIDFromContext(ContextWithRunID(context.Background(), "run-abc")))
	assert.Equal(t, "", RunIDFromContext(context.Background()))

	// A value of the wrong type yields the zero string, not a panic.
	ctx := context.WithValue(context.Background(), runIDContextKey, 12345)
	assert.Equal(t, "", RunIDFromContext(ctx))
}

func TestWithFields(t *testing.T) {
	logger, buf := bufLogger(slog.LevelInfo)

	WithFields(logger, map[string]interface{}{
		"source":  "clinical_trials",
		"bucket":  "silver",
		"decoded": 8,
		"lenient": true,
	}).Info("source processed")

	entry := parseEntry(t, buf)
	assert.Equal(t, "clinical_trials", entry["source"])
	assert.Equal(t, "silver", entry["bucket"])
	assert.Equal(t, float64(8), entry["decoded"])
	assert.Equal(t, true, entry["lenient"])
}

func TestWithFields_Empty(t *testing.T) {
	logger, buf := bufLogger(slog.LevelInfo)

	WithFields(logger, map[string]interface{}{}).Info("bare message")

	entry := parseEntry(t, buf)
	assert.Equal(t, "bare message", entry["msg"])
}

func TestFromContext(t *testing.T) {
	logger, buf := bufLogger(slog.LevelInfo)

	// Stored logger round-trips.
	ctx := WithLogger(context.Background(), logger)
	FromContext(ctx).Info("via context")
	assert.Contains(t, buf.String(), "via context")

	// No logger, or a wrong-typed value, falls back to slog.Default.
	assert.Equal(t, slog.Default(), FromContext(context.Background()))
	bad := context.WithValue(context.Background(), loggerContextKey, "not a logger")
	assert.Equal(t, slog.Default(), FromContext(bad))
}

func TestContextPropagation_EndToEnd(t *testing.T) {
	logger, buf := bufLogger(slog.LevelInfo)

	ctx := WithLogger(context.Background(), logger)
	ctx = ContextWithRunID(ctx, "run-propagation")

	WithRunID(ctx, FromContext(ctx)).Info("gold stage finished")

	entry := parseEntry(t, buf)
	assert.Equal(t, "gold stage finished", entry["msg"])
	assert.Equal(t, "run-propagation", entry["run_id"])
}

func BenchmarkLogger_Info(b *testing.B) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message")
	}
}

func BenchmarkLogger_WithRunID(b *testing.B) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	ctx := ContextWithRunID(context.Background(), "benchmark-run-id")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		WithRunID(ctx, logger).Info("benchmark message")
	}
}
