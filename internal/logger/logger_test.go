package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_WritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelInfo, "explorer", func(context.Context) string { return "abc123" })

	log.Info(context.Background(), "block accepted", "height", 42)
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "block accepted", entry["msg"])
	assert.Equal(t, "explorer", entry["service"])
	assert.Equal(t, float64(42), entry["height"])
	assert.Equal(t, "abc123", entry["trace_id"])
	assert.Contains(t, entry["caller"], "logger_test.go")
}

func TestLogger_FiltersBelowMinLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelWarn, "explorer", nil)

	log.Debug(context.Background(), "dropped")
	log.Info(context.Background(), "dropped too")
	log.Warn(context.Background(), "kept")
	require.NoError(t, log.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "kept")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("warn"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
}
