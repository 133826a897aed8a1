// Package logger provides structured logging functionality
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger for application-wide logging
type Logger struct {
	*slog.Logger
}

// Config holds logger configuration
type Config struct {
	Level  string // debug, info, warn, error
	Format string // text, json
	Output io.Writer
}

// New creates a new structured logger
func New(cfg Config) *Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithComponent returns a logger with a component attribute
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger: l.With("component", component),
	}
}

// WithArtist returns a logger with artist identity attributes
func (l *Logger) WithArtist(artistKey, name string) *Logger {
	return &Logger{
		Logger: l.With("artist_key", artistKey, "artist_name", name),
	}
}

// WithIngest returns a logger scoped to one ingestion unit
func (l *Logger) WithIngest(externalID, kind string) *Logger {
	return &Logger{
		Logger: l.With("external_id", externalID, "kind", kind),
	}
}

// WithTask returns a logger scoped to a queued background task
func (l *Logger) WithTask(taskID, name string) *Logger {
	return &Logger{
		Logger: l.With("task_id", taskID, "task", name),
	}
}

// Discard returns a logger that drops everything, for tests
func Discard() *Logger {
	return New(Config{Level: "error", Output: io.Discard})
}

// Default returns a default logger for quick usage
func Default() *Logger {
	return New(Config{
		Level:  "info",
		Format: "text",
	})
}
