// Package logger provides structured logging for tplfmt.
//
// Diagnostics go to stderr so they never interleave with the per-file
// report lines on stdout.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields holds contextual key/value pairs attached to log messages.
type Fields map[string]interface{}

// Logger is the logging interface used by all tplfmt components.
type Logger interface {
	// Debug logs a message at debug level. Only shown when verbosity >= 1.
	Debug(msg string)

	// Info logs a message at info level.
	Info(msg string)

	// Warn logs a message at warn level.
	Warn(msg string)

	// Error logs a message at error level.
	Error(msg string)

	// WithFields returns a Logger that includes the given fields in every
	// subsequent message.
	WithFields(fields Fields) Logger
}

// Config controls logger construction.
type Config struct {
	// Verbosity selects the minimum level:
	// 0 warn+, 1 info+, 2 and above debug+.
	Verbosity int

	// Output is where log lines are written. Defaults to os.Stderr.
	Output io.Writer
}

type logger struct {
	zap *zap.Logger
}

// New creates a Logger with the given configuration.
//
// Example:
//
//	log := logger.New(logger.Config{Verbosity: 1})
//	log.WithFields(logger.Fields{"path": path}).Info("formatting file")
func New(config Config) Logger {
	if config.Output == nil {
		config.Output = os.Stderr
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		MessageKey:     "message",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(config.Output),
		levelFor(config.Verbosity),
	)

	return &logger{zap: zap.New(core)}
}

// Nop returns a Logger that discards everything. Useful in tests.
func Nop() Logger {
	return &logger{zap: zap.NewNop()}
}

func levelFor(verbosity int) zapcore.LevelEnabler {
	switch {
	case verbosity <= 0:
		return zapcore.WarnLevel
	case verbosity == 1:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

func (l *logger) Debug(msg string) { l.zap.Debug(msg) }
func (l *logger) Info(msg string)  { l.zap.Info(msg) }
func (l *logger) Warn(msg string)  { l.zap.Warn(msg) }
func (l *logger) Error(msg string) { l.zap.Error(msg) }

func (l *logger) WithFields(fields Fields) Logger {
	zapFields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zapFields = append(zapFields, zap.Any(k, v))
	}

	return &logger{zap: l.zap.With(zapFields...)}
}
