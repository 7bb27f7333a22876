package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"", log.WarnLevel},
		{"verbose", log.WarnLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestParseFormatter(t *testing.T) {
	assert.Equal(t, log.JSONFormatter, ParseFormatter("json"))
	assert.Equal(t, log.LogfmtFormatter, ParseFormatter("logfmt"))
	assert.Equal(t, log.TextFormatter, ParseFormatter("text"))
	assert.Equal(t, log.TextFormatter, ParseFormatter("yaml"))
}

func TestFromConfigFallback(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := FromConfig("info", "logfmt", "", &buf)
	require.NoError(t, err)
	defer closer.Close()

	logger.Debug("hidden")
	logger.Info("resync", "todos", 3)
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=resync")
	assert.Contains(t, out, "todos=3")
}

func TestFromConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "chaintodo.log")
	logger, closer, err := FromConfig("debug", "json", path, nil)
	require.NoError(t, err)

	logger.Debug("transaction submitted", "tx", "0xabc")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"transaction submitted"`)
	assert.Contains(t, string(b), `"tx":"0xabc"`)
	assert.Contains(t, string(b), `"time"`)
}
