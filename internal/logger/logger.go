// Package logger provides structured logging for pdfmark. The terminal UI
// owns stdout, so log output normally goes to a file.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger wraps zerolog with pdfmark-specific helpers
type Logger struct {
	zlog zerolog.Logger
}

// Config holds logger configuration
type Config struct {
	Level      string // trace, debug, info, warn, error, disabled
	Pretty     bool   // human-readable console format
	Output     io.Writer
	WithCaller bool
}

// ParseLevel maps a config level name to a zerolog level
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a new structured logger
func NewLogger(cfg Config) *Logger {
	output := cfg.Output
	if output == nil {
		output = io.Discard
	}

	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		}
	}

	zlog := zerolog.New(output).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", "pdfmark").
		Logger()

	if cfg.WithCaller {
		zlog = zlog.With().Caller().Logger()
	}

	return &Logger{zlog: zlog}
}

// OpenFile opens (appending) the log file, creating its directory
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create log directory")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open log file %s", path)
	}
	return f, nil
}

// GetZerolog returns the underlying zerolog logger
func (l *Logger) GetZerolog() *zerolog.Logger {
	return &l.zlog
}

// Component returns a sub-logger tagged with a component name
func (l *Logger) Component(name string) zerolog.Logger {
	return l.zlog.With().Str("component", name).Logger()
}

// LogStartup records the session start
func (l *Logger) LogStartup(document, configPath string) {
	l.zlog.Info().
		Str("event", "startup").
		Str("document", document).
		Str("config", configPath).
		Msg("pdfmark starting")
}

// LogShutdown records the session end
func (l *Logger) LogShutdown(err error) {
	ev := l.zlog.Info()
	if err != nil {
		ev = l.zlog.Error().Err(err)
	}
	ev.Str("event", "shutdown").Msg("pdfmark exiting")
}

// Global logger instance
var globalLogger *Logger

// InitGlobalLogger initializes the global logger; package-level zerolog
// calls in other packages go through it
func InitGlobalLogger(cfg Config) *Logger {
	globalLogger = NewLogger(cfg)
	log.Logger = *globalLogger.GetZerolog()
	return globalLogger
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *Logger {
	if globalLogger == nil {
		InitGlobalLogger(Config{Level: "info"})
	}
	return globalLogger
}
