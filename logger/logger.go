package logger

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// Log represents singleton access to the default logger
var Log = NewLogger("")

// Logger represents a logger
type Logger struct {
	logger *zap.SugaredLogger
}

// NewLogger creates a new Logger writing to stdout. A non-empty prefix names the logger.
func NewLogger(prefix string) Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.UTC().Format("2006/01/02 15:04:05.000000"))
	}
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(os.Stdout), level)

	zl := zap.New(core)
	if prefix != "" {
		zl = zl.Named(prefix)
	}

	return Logger{logger: zl.Sugar()}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return Logger{logger: zap.NewNop().Sugar()}
}

// SetDebug enables or disables debug output for every logger created by this package.
func SetDebug(enabled bool) {
	if enabled {
		level.SetLevel(zapcore.DebugLevel)
		return
	}
	level.SetLevel(zapcore.InfoLevel)
}

// Named returns a child logger
func (l Logger) Named(name string) Logger {
	return Logger{logger: l.logger.Named(name)}
}

func (l Logger) Debug(format string, args ...interface{}) {
	l.logger.Debugf(format, args...)
}

func (l Logger) Info(format string, args ...interface{}) {
	l.logger.Infof(format, args...)
}

func (l Logger) Warn(format string, args ...interface{}) {
	l.logger.Warnf(format, args...)
}

func (l Logger) Error(format string, args ...interface{}) {
	l.logger.Errorf(format, args...)
}

func (l Logger) Fatal(format string, args ...interface{}) {
	l.logger.Fatalf(format, args...)
}

// Sync flushes any buffered output.
func (l Logger) Sync() error {
	return l.logger.Sync()
}
