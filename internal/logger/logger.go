package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Format selects the slog handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat accepts "text" or "json", case-insensitively. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown log format %q", s)
	}
}

// The process-wide logger. Conversions running on other goroutines may log
// while the CLI or server swaps it.
var current atomic.Pointer[slog.Logger]

// New builds a logger without installing it.
func New(w io.Writer, level slog.Level, format Format) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Setup installs a logger on w as both this package's logger and slog's
// default. The CLI passes stderr so stdout only ever carries documents.
func Setup(w io.Writer, level slog.Level, format Format) *slog.Logger {
	l := New(w, level, format)
	current.Store(l)
	slog.SetDefault(l)
	return l
}

// Logger returns the installed logger, setting up an INFO text logger on
// stderr the first time if nothing was installed.
func Logger() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	current.CompareAndSwap(nil, New(os.Stderr, slog.LevelInfo, FormatText))
	return current.Load()
}

func WithRequestID(id string) *slog.Logger {
	return Logger().With("request_id", id)
}

func WithConversion(id string) *slog.Logger {
	return Logger().With("conversion_id", id)
}

// WithFile tags batch and watch log lines with the classic document path.
func WithFile(path string) *slog.Logger {
	return Logger().With("file", path)
}

func Debug(msg string, args ...any) { Logger().Debug(msg, args...) }
func Info(msg string, args ...any)  { Logger().Info(msg, args...) }
func Warn(msg string, args ...any)  { Logger().Warn(msg, args...) }
func Error(msg string, args ...any) { Logger().Error(msg, args...) }
