// Package cli holds the logging and configuration plumbing shared by the commands.
package cli

import (
	"log/slog"
	"os"
)

// DefaultLogLevel is used when no -v flag is given.
const DefaultLogLevel = slog.LevelWarn

// SetVerbosity sets the logging level for the default logger based on the verbose flag count.
func SetVerbosity(level int) {
	slog.SetLogLoggerLevel(getLevel(level))
}

// SetSlog sets the logging level and format for the default logger.
func SetSlog(level int, jsonLogs bool) {
	slogLevel := getLevel(level)
	if jsonLogs {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel})))
		return
	}

	SetVerbosity(level)
}

func getLevel(level int) slog.Level {
	switch level {
	case 0:
		return DefaultLogLevel
	case 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
