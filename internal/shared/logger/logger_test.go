package logger

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

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"DEBUG", slog.LevelDebug},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(&Config{Level: "info", Format: "json", Output: &buf})

	log.Info("hello", "key", "value")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "value", entry["key"])
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(&Config{Level: "info", Format: "text", Output: &buf})

	log.Info("hello", "key", "value")

	out := buf.String()
	assert.Contains(t, out, "msg=hello")
	assert.Contains(t, out, "key=value")
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(&Config{Level: "warn", Format: "json", Output: &buf})

	log.Info("not logged")
	assert.Empty(t, buf.String())

	log.Warn("logged")
	assert.Contains(t, buf.String(), "logged")
}

func TestNew_NilConfig(t *testing.T) {
	log := New(nil)
	assert.NotNil(t, log)
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	log := New(&Config{Level: "info", Format: "json", Output: &buf})

	child := log.With("component", "team")
	child.Info("event")

	assert.Contains(t, buf.String(), `"component":"team"`)
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	log := New(&Config{Level: "info", Format: "json", Output: &buf})

	ctx := ContextWithLogger(context.Background(), log)
	got := FromContext(ctx)
	assert.Same(t, log, got)
}

func TestFromContext_Missing(t *testing.T) {
	got := FromContext(context.Background())
	assert.NotNil(t, got)
}

func TestNewZapLogger(t *testing.T) {
	for _, format := range []string{"json", "text"} {
		t.Run(format, func(t *testing.T) {
			log, err := NewZapLogger(&Config{Level: "debug", Format: format})
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestErr(t *testing.T) {
	attr := Err(assert.AnError)
	assert.Equal(t, "error", attr.Key)
	assert.True(t, strings.Contains(attr.Value.String(), "assert.AnError"))
}
