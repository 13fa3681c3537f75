// Package logger builds the zerolog loggers used by the command line and the
// HTTP server.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Level aliases zerolog levels so callers do not import zerolog for flags.
type Level = zerolog.Level

// Log levels.
const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
)

// Config holds logger configuration.
type Config struct {
	Level     Level
	Pretty    bool // console writer instead of JSON lines
	Output    io.Writer
	Component string
}

// DefaultConfig logs JSON at info level to stderr.
func DefaultConfig() Config {
	return Config{
		Level:  InfoLevel,
		Output: os.Stderr,
	}
}

// New creates a logger with the given configuration.
func New(cfg Config) zerolog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	output := cfg.Output
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        cfg.Output,
			TimeFormat: "15:04:05",
		}
	}

	zl := zerolog.New(output).
		With().
		Timestamp().
		Logger().
		Level(cfg.Level)

	if cfg.Component != "" {
		zl = zl.With().Str("component", cfg.Component).Logger()
	}
	return zl
}

// ParseLevel parses a level name. An empty string selects info.
func ParseLevel(raw string) (Level, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return InfoLevel, nil
	}
	return zerolog.ParseLevel(raw)
}
