// Package logging builds the slog logger shared by both binaries.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup returns a *slog.Logger configured for env and installs it as the
// slog default, so package-level slog.Info calls share its handler.
//
//	dev (and anything unrecognised): text, DEBUG
//	staging:                         JSON, DEBUG
//	prod:                            JSON, INFO
func Setup(env string) *slog.Logger {
	log := New(os.Stdout, env)
	slog.SetDefault(log)
	return log
}

// New is Setup without touching the slog default.
func New(w io.Writer, env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case "staging":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
