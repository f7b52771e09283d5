package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mikey/nzbget-notify/internal/config"
	"github.com/mikey/nzbget-notify/internal/logging"
)

func TestNZBGetFormatPrefixesLines(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(zapcore.DebugLevel, "nzbget", zapcore.AddSync(&buf))
	require.NoError(t, err)

	logger.Debug("Script successfully started")
	logger.Info("Skipping sending of message for successful download")
	logger.Warn("RCPT TO failed", zap.String("recipient", "a@example.com"))
	logger.Error("Option FROM is missing in configuration file. Please check script settings")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "[DETAIL] Script successfully started", lines[0])
	assert.Equal(t, "[INFO] Skipping sending of message for successful download", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "[WARNING] RCPT TO failed "))
	assert.Contains(t, lines[2], `"recipient": "a@example.com"`)
	assert.Equal(t, "[ERROR] Option FROM is missing in configuration file. Please check script settings", lines[3])
}

func TestLevelFiltersDetail(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(zapcore.InfoLevel, "nzbget", zapcore.AddSync(&buf))
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("shown")

	assert.Equal(t, "[INFO] shown\n", buf.String())
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(zapcore.InfoLevel, "json", zapcore.AddSync(&buf))
	require.NoError(t, err)

	logger.Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"level":"info"`)
}

func TestUnknownFormat(t *testing.T) {
	_, err := logging.New(zapcore.InfoLevel, "xml", zapcore.AddSync(&bytes.Buffer{}))
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"detail":  zapcore.DebugLevel,
		"DEBUG":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.DebugLevel,
	}
	for name, want := range tests {
		assert.Equal(t, want, logging.ParseLevel(name), name)
	}
}

func TestInitLoggerFromConfig(t *testing.T) {
	v := config.NewEmptyViper()
	v.Set(config.KeyLogLevel, "warning")
	logger, err := logging.InitLogger(config.NewFromViper(v))
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}
