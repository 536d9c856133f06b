package logger

import (
	"os"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log = newLogger()

func newLogger() *zap.Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.Lock(os.Stdout), zap.InfoLevel)
	return zap.New(core)
}

// SetLogger replaces the process logger. Intended for tests.
func SetLogger(l *zap.Logger) { log = l }

func Info(msg string)  { log.Info(msg) }
func Warn(msg string)  { log.Warn(msg) }
func Error(msg string) { log.Error(msg) }

// InfoJ logs a structured event with sorted keys for stable output.
func InfoJ(event string, fields map[string]any)  { log.Info(event, toFields(fields)...) }
func WarnJ(event string, fields map[string]any)  { log.Warn(event, toFields(fields)...) }
func ErrorJ(event string, fields map[string]any) { log.Error(event, toFields(fields)...) }

func toFields(m map[string]any) []zap.Field {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fs := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		fs = append(fs, zap.Any(k, m[k]))
	}
	return fs
}

// Sync flushes buffered log entries, if any.
func Sync() { _ = log.Sync() }
