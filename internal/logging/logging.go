package logging

import (
	"log/slog"
	"os"
)

// Init installs the default slog logger writing text to stderr.
// Only warnings and errors are shown unless verbose is set.
func Init(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
