package logger

import (
	"fmt"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "lezat-lumer"

var global atomic.Pointer[zap.Logger]

// New builds a logger for env. Production writes JSON to stdout at info,
// anything else writes colored console lines at debug. A non-empty level
// overrides the default.
func New(env, level string) (*zap.Logger, error) {
	cfg := consoleConfig()
	if env == "production" {
		cfg = jsonConfig()
	}

	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.With(zap.String("service", serviceName), zap.String("env", env)), nil
}

func jsonConfig() zap.Config {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stdout"}
	// the session loop logs every command; keep bursts from flooding stdout
	cfg.Sampling = &zap.SamplingConfig{Initial: 100, Thereafter: 50}
	return cfg
}

func consoleConfig() zap.Config {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	return cfg
}

// Setup installs the process logger. An invalid level falls back to the env
// default and is reported through the returned error.
func Setup(env, level string) error {
	l, err := New(env, level)
	if err != nil {
		l, _ = New(env, "")
		if l == nil {
			l = zap.NewNop()
		}
	}
	global.Store(l)
	return err
}

// L returns the process logger, set up from APP_ENV and LOG_LEVEL on first use.
func L() *zap.Logger {
	if l := global.Load(); l != nil {
		return l
	}
	_ = Setup(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
	return global.Load()
}

// Replace swaps the process logger and returns a func restoring the previous one.
func Replace(l *zap.Logger) func() {
	prev := global.Swap(l)
	return func() { global.Store(prev) }
}

func Sync() {
	if l := global.Load(); l != nil {
		_ = l.Sync()
	}
}
