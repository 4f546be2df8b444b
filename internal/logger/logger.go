package logger

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options describes logger configuration supplied at creation time.
type Options struct {
	Level         string
	HumanReadable bool
	Writer        io.Writer
	// Fields are attached to every entry, e.g. the program name.
	Fields map[string]any
}

// Logger wraps zerolog to provide a simplified API for the runtime.
type Logger struct {
	base zerolog.Logger
}

// New creates a configured Logger instance based on Options.
func New(opts Options) (*Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	// zerolog drops anything below its global level regardless of the logger's own.
	if level < zerolog.GlobalLevel() {
		zerolog.SetGlobalLevel(level)
	}

	var output io.Writer = writer
	if opts.HumanReadable {
		console := zerolog.NewConsoleWriter()
		console.Out = writer
		console.TimeFormat = time.RFC3339
		output = console
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return (&Logger{base: logger}).WithFields(opts.Fields), nil
}

// Nop returns a logger that discards every entry.
func Nop() *Logger {
	return &Logger{base: zerolog.Nop()}
}

// WithFields returns a derived logger that always writes the supplied fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	if l == nil {
		return nil
	}

	if len(fields) == 0 {
		return l
	}

	builder := l.base.With()
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		builder = builder.Interface(key, fields[key])
	}

	derived := Logger{base: builder.Logger()}
	return &derived
}

// WithField is WithFields for a single string value.
func (l *Logger) WithField(key, value string) *Logger {
	if l == nil {
		return nil
	}
	derived := Logger{base: l.base.With().Str(key, value).Logger()}
	return &derived
}

// Trace writes a trace-level entry, used for per-resource lifecycle events.
func (l *Logger) Trace(msg string) {
	if l == nil {
		return
	}
	l.base.Trace().Msg(msg)
}

// Info writes an informational log entry.
func (l *Logger) Info(msg string) {
	if l == nil {
		return
	}
	l.base.Info().Msg(msg)
}

// Debug writes a debug-level log entry if enabled.
func (l *Logger) Debug(msg string) {
	if l == nil {
		return
	}
	l.base.Debug().Msg(msg)
}

// Warn writes a warning level log entry.
func (l *Logger) Warn(msg string) {
	if l == nil {
		return
	}
	l.base.Warn().Msg(msg)
}

// Error writes an error log entry including the supplied error context.
func (l *Logger) Error(err error, msg string) {
	if l == nil {
		return
	}
	event := l.base.Error()
	if err != nil {
		event = event.Err(err)
	}
	event.Msg(msg)
}
