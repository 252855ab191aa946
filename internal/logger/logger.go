// Package logger is a thin zerolog wrapper shared by the pipeline and the CLI.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

type Logger struct {
	logger *zerolog.Logger
}

func level(debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// New returns a JSON logger writing to stderr.
func New(debug bool) *Logger {
	return NewWriter(os.Stderr, debug)
}

// NewWriter returns a JSON logger writing to w.
func NewWriter(w io.Writer, debug bool) *Logger {
	l := zerolog.New(w).Level(level(debug)).With().Timestamp().Logger()
	return &Logger{logger: &l}
}

// NewConsole returns a human-readable logger on stderr.
func NewConsole(debug bool, noColor bool) *Logger {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000", NoColor: noColor}
	l := zerolog.New(out).Level(level(debug)).With().Timestamp().Logger()
	return &Logger{logger: &l}
}

// Nop returns a logger that drops everything.
func Nop() *Logger {
	l := zerolog.Nop()
	return &Logger{logger: &l}
}

// With creates a child logger with the field added to its context.
func (l *Logger) With() zerolog.Context { return l.logger.With() }

// Extend adds some additional context to the existing logger.
func (l *Logger) Extend(ctx zerolog.Context) *Logger {
	logger := ctx.Logger()
	return &Logger{logger: &logger}
}

// Op returns a child logger tagged with the operation name.
func (l *Logger) Op(name string) *Logger { return l.Extend(l.With().Str("op", name)) }

func (l *Logger) Debug() *zerolog.Event { return l.logger.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.logger.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.logger.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.logger.Error() }
