package status

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sipeed/sobot/pkg/config"
)

func TestPrintStatus_RedactsToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o600))

	cfg := config.DefaultConfig()
	cfg.Discord.Token = "abcdefghijklmnopqrstuvwxyz"
	cfg.Discord.GuildID = "guild-1"

	var buf bytes.Buffer
	printStatus(&buf, path, cfg)

	out := buf.String()
	assert.Contains(t, out, path+" ✓")
	assert.Contains(t, out, "abcd****wxyz")
	assert.NotContains(t, out, cfg.Discord.Token)
	assert.Contains(t, out, "Guild:  guild-1")
	assert.Contains(t, out, config.DefaultAPIURL)
	assert.Contains(t, out, "Attempts: 3")
	assert.Contains(t, out, "Timeout:  10s")
}

func TestPrintStatus_MissingConfig(t *testing.T) {
	var buf bytes.Buffer
	printStatus(&buf, filepath.Join(t.TempDir(), "missing.json"), config.DefaultConfig())

	out := buf.String()
	assert.Contains(t, out, "✗ (using defaults)")
	assert.Contains(t, out, "(not set)")
	assert.NotContains(t, out, "Proxy:")
}
