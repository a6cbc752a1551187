package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T, level LogLevel) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	oldLevel := GetLevel()
	mu.RLock()
	oldBase := base
	mu.RUnlock()
	t.Cleanup(func() {
		SetLevel(oldLevel)
		mu.Lock()
		base = oldBase
		mu.Unlock()
	})

	SetOutput(&buf)
	SetLevel(level)
	return &buf
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel(" WARN "))
	assert.Equal(t, ERROR, ParseLevel("Error"))
	assert.Equal(t, INFO, ParseLevel("verbose"))
	assert.Equal(t, INFO, ParseLevel(""))
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", DEBUG.String())
	assert.Equal(t, "FATAL", FATAL.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestInfoCF_WritesComponentAndFields(t *testing.T) {
	buf := captureLogs(t, INFO)

	InfoCF("search", "Search finished", map[string]any{"results": 5})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "search", entry["component"])
	assert.Equal(t, "Search finished", entry["message"])
	assert.EqualValues(t, 5, entry["results"])
}

func TestDebugCF_FilteredBelowLevel(t *testing.T) {
	buf := captureLogs(t, INFO)

	DebugCF("search", "hidden", nil)
	assert.Empty(t, buf.String())

	SetLevel(DEBUG)
	DebugCF("search", "visible", nil)
	assert.True(t, strings.Contains(buf.String(), "visible"))
}

func TestError_NoComponent(t *testing.T) {
	buf := captureLogs(t, WARN)

	Error("boom")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	_, ok := entry["component"]
	assert.False(t, ok)
}
