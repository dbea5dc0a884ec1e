// Package logger owns the process-wide zap logger.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Log = zap.NewNop()

// Init builds the global logger and returns it. level is a zap level name
// ("debug", "info", ...); unknown values mean info. format "console" gives a
// human readable encoder for local runs, anything else JSON.
func Init(level, format string) *zap.Logger {
	l, err := build(level, format).Build()
	if err != nil {
		panic(err)
	}
	Log = l.With(zap.String("service", "invest-backoffice"))
	zap.ReplaceGlobals(Log)
	return Log
}

func build(level, format string) zap.Config {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.Config{
		Encoding:         "json",
		Level:            zap.NewAtomicLevelAt(lvl),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewProductionEncoderConfig(),
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if strings.EqualFold(format, "console") {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return cfg
}

// Sync flushes buffered entries; errors from syncing stdout are ignored.
func Sync() { _ = Log.Sync() }
