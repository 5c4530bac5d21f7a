package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
		wantErr  bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelWarn, Output: &buf})
	ctx := context.Background()

	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	logger.Warn(ctx, nil, "warn message")
	logger.Error(ctx, errors.New("boom"), "error message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
	assert.Contains(t, out, "error=boom")
}

func TestJSONFormatWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelDebug, Format: "json", Output: &buf})

	logger.WithComponent("generator").
		With("builder", "tabs").
		Info(context.Background(), "wrote stylesheet", "bytes", 120)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "wrote stylesheet", record["msg"])
	assert.Equal(t, "generator", record["component"])
	assert.Equal(t, "tabs", record["builder"])
	assert.Equal(t, float64(120), record["bytes"])
}

func TestWithDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger(&LoggerConfig{Level: LevelInfo, Output: &buf})
	_ = parent.With("builder", "tabs")

	parent.Info(context.Background(), "plain")
	assert.NotContains(t, buf.String(), "builder=tabs")
}

func TestWithKeepsFieldOrder(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelInfo, Output: &buf}).
		With("builder", "tabs", "section", "TAB LIST").
		With("path", "dist/css/tabs.css", "builder", "sidebar")

	for i := 0; i < 20; i++ {
		buf.Reset()
		logger.Info(context.Background(), "compiled", "bytes", 42)
		out := buf.String()

		builder := strings.Index(out, "builder=sidebar")
		section := strings.Index(out, "section=")
		path := strings.Index(out, "path=")
		bytesAt := strings.Index(out, "bytes=42")
		require.True(t, builder >= 0 && section >= 0 && path >= 0 && bytesAt >= 0, out)
		assert.Less(t, builder, section)
		assert.Less(t, section, path)
		assert.Less(t, path, bytesAt)
		assert.NotContains(t, out, "builder=tabs")
	}
}

func TestOddFieldsAreIgnored(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelInfo, Output: &buf})
	logger.Info(context.Background(), "odd", "key")

	assert.Equal(t, 1, strings.Count(buf.String(), "msg=odd"))
	assert.NotContains(t, buf.String(), "key=")
}

func TestPerfLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelInfo, Output: &buf})

	op := StartOperation(logger, "build")
	op.End(context.Background(), "builders", 3)

	out := buf.String()
	assert.Contains(t, out, "Operation completed")
	assert.Contains(t, out, "operation=build")
	assert.Contains(t, out, "builders=3")
	assert.Contains(t, out, "duration_ms=")

	buf.Reset()
	StartOperation(logger, "build").EndWithError(context.Background(), errors.New("nope"))
	assert.Contains(t, buf.String(), "Operation failed")
	assert.Contains(t, buf.String(), "error=nope")
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	assert.NotPanics(t, func() {
		logger.Error(context.Background(), errors.New("x"), "dropped")
	})
}
