package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs a JSON slog logger on stdout as the process default.
// Development gets debug output; every other environment logs at info.
func Setup(env string) *slog.JSONHandler {
	handler := NewConsoleHandler(os.Stdout, env)
	slog.SetDefault(slog.New(handler))
	return handler
}

func NewConsoleHandler(w io.Writer, env string) *slog.JSONHandler {
	level := slog.LevelInfo
	if env == "development" {
		level = slog.LevelDebug
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}
