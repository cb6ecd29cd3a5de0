package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

var (
	initOnce     sync.Once
	globalZap    *zap.Logger
	globalLogger *slog.Logger
)

// Options configures the process logger.
type Options struct {
	Level       string
	Development bool
}

// Init builds the zap core, bridges it into log/slog and installs both as process defaults.
// Only the first call has an effect.
func Init(opts Options) error {
	var initErr error
	initOnce.Do(func() {
		level, err := ParseLevel(opts.Level)
		if err != nil {
			initErr = err
			level = zapcore.InfoLevel
		}

		cfg := zap.NewProductionConfig()
		if opts.Development {
			cfg = zap.NewDevelopmentConfig()
		}
		cfg.Level = zap.NewAtomicLevelAt(level)

		z, err := cfg.Build()
		if err != nil {
			initErr = fmt.Errorf("failed to build zap logger: %w", err)
			z = zap.NewNop()
		}
		install(z)
	})
	return initErr
}

// Use installs an existing zap logger as the process logger. Intended for tests.
func Use(z *zap.Logger) {
	initOnce.Do(func() {})
	install(z)
}

func install(z *zap.Logger) {
	globalZap = z
	globalLogger = slog.New(zapslog.NewHandler(z.Core(), zapslog.WithName("sentrix")))
	slog.SetDefault(globalLogger)
}

// ParseLevel maps a textual level to a zap level.
func ParseLevel(levelStr string) (zapcore.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG":
		return zapcore.DebugLevel, nil
	case "", "INFO":
		return zapcore.InfoLevel, nil
	case "WARN", "WARNING":
		return zapcore.WarnLevel, nil
	case "ERROR":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q", levelStr)
	}
}

// Zap returns the process zap logger, or a no-op logger before Init.
func Zap() *zap.Logger {
	if globalZap == nil {
		return zap.NewNop()
	}
	return globalZap
}

// Slog returns the process slog logger.
func Slog() *slog.Logger {
	if globalLogger == nil {
		return slog.Default()
	}
	return globalLogger
}

// Sync flushes buffered log entries. Call once on shutdown.
func Sync() {
	if globalZap != nil {
		_ = globalZap.Sync()
	}
}

// Debug logs a message at DebugLevel.
func Debug(msg string, args ...any) {
	log(slog.LevelDebug, msg, args...)
}

// Info logs a message at InfoLevel.
func Info(msg string, args ...any) {
	log(slog.LevelInfo, msg, args...)
}

// Warn logs a message at WarnLevel.
func Warn(msg string, args ...any) {
	log(slog.LevelWarn, msg, args...)
}

// Error logs a message at ErrorLevel.
func Error(msg string, args ...any) {
	log(slog.LevelError, msg, args...)
}

// Fatal logs a message at ErrorLevel, flushes and exits.
func Fatal(msg string, args ...any) {
	Slog().Error(msg, args...)
	Sync()
	os.Exit(1)
}

func log(level slog.Level, msg string, args ...any) {
	l := Slog()
	if l.Enabled(context.Background(), level) {
		l.Log(context.Background(), level, msg, args...)
	}
}
