package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertions)
var (
	_ Logger = NoOpLogger{}
	_ Logger = (*SlogAdapter)(nil)
	_ Logger = (*ConverterLogger)(nil)
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   LogLevelDebug,
		"INFO":    LogLevelInfo,
		"":        LogLevelInfo,
		"warning": LogLevelWarn,
		" error ": LogLevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestOrNoOp(t *testing.T) {
	assert.Equal(t, NoOpLogger{}, OrNoOp(nil))

	l := NewSlogAdapter(slog.Default())
	assert.Same(t, l, OrNoOp(l))
}

func TestConverterLogger_JSONAttributes(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{
		Level:       LogLevelInfo,
		Format:      "json",
		Output:      &buf,
		CustomAttrs: map[string]any{"run": "r1"},
	})

	l.WithComponent("export").WithMesh("data/example.vts").Info("Export completed", "rows", 8)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Export completed", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "export", entry["component"])
	assert.Equal(t, "data/example.vts", entry["mesh"])
	assert.Equal(t, "r1", entry["run"])
	assert.EqualValues(t, 8, entry["rows"])
}

func TestConverterLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelWarn, Output: &buf})

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown too")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Equal(t, 2, strings.Count(out, "shown"))
}

func TestConverterLogger_WithIsolation(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(&LoggerConfig{Level: LogLevelDebug, Output: &buf})
	child := base.WithContext("k", "v").WithComponent("transform")

	base.Info("base")
	assert.NotContains(t, buf.String(), "k=v")
	assert.NotContains(t, buf.String(), "component=transform")

	buf.Reset()
	child.Info("child")
	assert.Contains(t, buf.String(), "k=v")
	assert.Contains(t, buf.String(), "component=transform")
}

func TestConverterLogger_StartTimer(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelDebug, Output: &buf})

	done := l.StartTimer("joint")
	done()

	assert.Contains(t, buf.String(), "operation=joint")
	assert.Contains(t, buf.String(), "duration=")
}

func TestNewSlogLogger_DefaultsToText(t *testing.T) {
	l := NewSlogLogger(LogLevelError, "", false)
	require.NotNil(t, l)
	assert.Equal(t, LogLevelError, l.level)
}
