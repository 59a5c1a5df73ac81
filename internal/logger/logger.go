package logger

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// log is the global zap logger instance. It starts as a no-op logger so packages
// and tests can log before (or without) Initialize.
var log atomic.Pointer[zap.Logger]

func init() {
	log.Store(zap.NewNop())
}

// Config holds logger configuration
type Config struct {
	Debug bool
	// Fields are attached to every entry (e.g. service name)
	Fields map[string]string
}

// Initialize builds the global logger
func Initialize(cfg Config) error {
	var zapConfig zap.Config
	if cfg.Debug {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	built, err := zapConfig.Build()
	if err != nil {
		return err
	}

	for k, v := range cfg.Fields {
		built = built.With(zap.String(k, v))
	}

	log.Store(built)
	return nil
}

// Set replaces the global logger (tests use zaptest/observer loggers)
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	log.Store(l)
}

// Default returns the global logger
func Default() *zap.Logger {
	return log.Load()
}

// With returns the global logger with extra fields
func With(fields ...zap.Field) *zap.Logger {
	return Default().With(fields...)
}

// Sync flushes buffered entries
func Sync() {
	_ = Default().Sync()
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	Default().Debug(msg, fields...)
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	Default().Info(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	Default().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	Default().Error(msg, fields...)
}
