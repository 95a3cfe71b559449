package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// LevelFromString maps debug/info/warn/error to a slog level, defaulting to info
func LevelFromString(level string) slog.Level {
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

// LevelEnv is the same variable the config layer reads for logLevel, so the
// startup logger and the configured logger agree.
const LevelEnv = "GOBEAUTIFY_LOGLEVEL"

// LevelFromEnv reads GOBEAUTIFY_LOGLEVEL, falling back to the given level when it is unset
func LevelFromEnv(fallback string) slog.Level {
	if level := os.Getenv(LevelEnv); level != "" {
		return LevelFromString(level)
	}
	return LevelFromString(fallback)
}

func CreateLogger(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				a.Value = slog.StringValue(a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	})
	return slog.New(handler)
}
