package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/natefinch/lumberjack"
)

const (
	TypeConsole = "console"
	TypeFile    = "file"
)

// Config selects where logs go and how files are rotated.
type Config struct {
	Type       string
	Level      string
	FilePath   string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

var (
	mu       sync.RWMutex
	instance *slog.Logger
)

// Init builds the process logger from cfg and installs it as the slog default.
func Init(cfg Config) error {
	l, err := New(cfg)
	if err != nil {
		return err
	}
	mu.Lock()
	instance = l
	mu.Unlock()
	slog.SetDefault(l)
	return nil
}

// New returns a logger without touching the process-wide instance.
func New(cfg Config) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case "", TypeConsole:
		return slog.New(slog.NewTextHandler(os.Stdout, opts)), nil
	case TypeFile:
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("file path required for file logger")
		}
		return slog.New(slog.NewJSONHandler(rotatingWriter(cfg), opts)), nil
	default:
		return nil, fmt.Errorf("unsupported log type: %s", cfg.Type)
	}
}

func rotatingWriter(cfg Config) io.Writer {
	return &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   true,
	}
}

// L returns the process logger. Before Init it is a plain console logger.
func L() *slog.Logger {
	mu.RLock()
	l := instance
	mu.RUnlock()
	if l != nil {
		return l
	}
	return slog.Default()
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
