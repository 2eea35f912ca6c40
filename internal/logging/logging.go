package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// thin wrapper around zap's sugared logger
type Logger struct {
	*zap.SugaredLogger
}

// NewLogger creates a console logger. Verbose enables debug level.
func NewLogger(verbose bool) *Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")

	base, err := cfg.Build()
	if err != nil {
		// development config only fails on bad options; fall back to no-op
		return &Logger{zap.NewNop().Sugar()}
	}

	return &Logger{base.Sugar()}
}

// NewNop returns a logger that discards everything. Used by tests and by
// library callers that do not care about diagnostics.
func NewNop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}

func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}
