package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs a text handler writing to stdout as the default
// logger, debug records are only kept when `debug` is set.
func InitSlog(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
