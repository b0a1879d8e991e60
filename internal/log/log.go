package log

import (
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// New constructs a slog.Logger writing to w. format is "json" or "text".
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
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

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ActivityID(id uuid.UUID) slog.Attr {
	return slog.String("activity_id", id.String())
}

func Page[T interface{ String() string }](kind T) slog.Attr {
	return slog.String("page", kind.String())
}

func Caller(name string) slog.Attr {
	return slog.String("caller", name)
}

func Request(text string) slog.Attr {
	return slog.String("request", text)
}

func Error(err error) slog.Attr {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return slog.String("error", msg)
}
