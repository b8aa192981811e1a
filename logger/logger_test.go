package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileLogger(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "park.log")

	l, err := New(Config{Type: TypeFile, Level: "info", FilePath: logPath, MaxSize: 1, MaxBackups: 1, MaxAge: 1})
	require.NoError(t, err)

	l.Info("info message", "booking", "NP-1")
	l.Warn("warn message")
	l.Debug("debug message")

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)

	out := string(content)
	assert.Contains(t, out, "info message")
	assert.Contains(t, out, `"booking":"NP-1"`)
	assert.Contains(t, out, "WARN")
	assert.NotContains(t, out, "debug message")
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(Config{Type: TypeFile})
	assert.Error(t, err)

	_, err = New(Config{Type: "syslog"})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestLFallsBackBeforeInit(t *testing.T) {
	assert.NotNil(t, L())
}
