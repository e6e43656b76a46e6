package logger

import (
	"errors"
	"log/slog"
	"os"
	"strings"
)

// New creates a structured slog.Logger based on the provided level string.
// Console output is text for readability; pass COURSE_LOG_FORMAT=json to
// switch to JSON for log shippers.
func New(level string) (*slog.Logger, error) {
	handlerLevel, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: handlerLevel}

	var handler slog.Handler
	if strings.EqualFold(os.Getenv("COURSE_LOG_FORMAT"), "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler), nil
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, errors.New("unknown log level: " + level)
	}
}
