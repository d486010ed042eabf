// Package logger builds the zerolog logger shared by the server and the admin CLI.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a JSON logger writing to stdout at the given level.
// Unknown or empty levels fall back to info.
func New(level string) zerolog.Logger {
	return NewWithOutput(os.Stdout, level)
}

// NewWithOutput is New with an explicit destination.
func NewWithOutput(w io.Writer, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	return zerolog.New(w).
		With().
		Timestamp().
		Logger().
		Level(ParseLevel(level))
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
