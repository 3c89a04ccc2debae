// Package logger provides structured logging for the batch runner.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Fields carries structured key/value context for a log line.
type Fields map[string]interface{}

// Logger provides structured logging with context
type Logger interface {
	Info(component, message string, fields Fields)
	Error(component, message string, err error, fields Fields)
	Warning(component, message string, fields Fields)
	Debug(component, message string, fields Fields)
}

// ZerologAdapter implements Logger on top of a zerolog.Logger. Each call
// writes one event tagged with the component name and the given fields.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerolog returns an adapter writing JSON lines with Unix timestamps to
// writer. Events below level are dropped.
func NewZerolog(writer io.Writer, level zerolog.Level) *ZerologAdapter {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.DurationFieldInteger = true

	logger := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &ZerologAdapter{logger: logger}
}

// NewConsoleLogger returns an adapter writing human-readable lines with
// HH:MM:SS timestamps to stdout.
func NewConsoleLogger(level zerolog.Level) *ZerologAdapter {
	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
	}
	return NewZerolog(consoleWriter, level)
}

// ParseLevel maps a level name ("debug", "info", "warn", "error") to a
// zerolog level. An empty name means info.
func ParseLevel(name string) (zerolog.Level, error) {
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

func (z *ZerologAdapter) Info(component, message string, fields Fields) {
	if !z.logger.Info().Enabled() {
		return
	}

	event := z.logger.Info().Str("component", component)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(message)
}

func (z *ZerologAdapter) Error(component, message string, err error, fields Fields) {
	if !z.logger.Error().Enabled() {
		return
	}

	event := z.logger.Error().Str("component", component).Err(err)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(message)
}

func (z *ZerologAdapter) Warning(component, message string, fields Fields) {
	if !z.logger.Warn().Enabled() {
		return
	}

	event := z.logger.Warn().Str("component", component)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(message)
}

func (z *ZerologAdapter) Debug(component, message string, fields Fields) {
	if !z.logger.Debug().Enabled() {
		return
	}

	event := z.logger.Debug().Str("component", component)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(message)
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Info(string, string, Fields)         {}
func (nopLogger) Error(string, string, error, Fields) {}
func (nopLogger) Warning(string, string, Fields)      {}
func (nopLogger) Debug(string, string, Fields)        {}
