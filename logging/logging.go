package logging

import (
	"log"
	"log/slog"
	"os"
	"strings"
)

// New configures a text slog logger on stdout at the given level and points
// the legacy stdlib logger at the same stream.
func New(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	h := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	logger := slog.New(h)

	// make legacy stdlib log align with the handler's stream
	log.SetOutput(os.Stdout)
	return logger
}
