package logger

import (
	"fmt"
	"log/slog"
	"os"
)

var globalLogger = slog.Default()

// LogLevel represents different log levels
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Config holds logger configuration
type Config struct {
	Level  LogLevel
	Format string // "json" or "text"
}

// InitWithConfig initializes the logger with custom config.
func InitWithConfig(config Config) {
	var level slog.Level
	switch config.Level {
	case LevelDebug:
		level = slog.LevelDebug
	case LevelWarn:
		level = slog.LevelWarn
	case LevelError:
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if config.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}

// WithFields returns a logger with additional fields
func WithFields(fields ...any) *slog.Logger {
	return globalLogger.With(fields...)
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	globalLogger.Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	globalLogger.Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	globalLogger.Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	globalLogger.Error(msg, args...)
}

// Infof logs an info message with formatting
func Infof(format string, args ...any) {
	globalLogger.Info(fmt.Sprintf(format, args...))
}

// Errorf logs an error message with formatting
func Errorf(format string, args ...any) {
	globalLogger.Error(fmt.Sprintf(format, args...))
}

// Fatal logs a fatal message and exits
func Fatal(msg string, args ...any) {
	globalLogger.Error(msg, args...)
	os.Exit(1)
}

// Fatalf logs a fatal message with formatting and exits
func Fatalf(format string, args ...any) {
	globalLogger.Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}

// GetLogger returns the global logger instance
func GetLogger() *slog.Logger {
	return globalLogger
}
