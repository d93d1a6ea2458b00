// Package logging provides a small categorized wrapper over *zap.Logger.
// One base logger is built once at process start; callers fetch a named
// sub-logger per subsystem via Get, which zap renders as the "logger"
// field on every entry.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category names a logging subsystem.
type Category string

const (
	CategoryExtract  Category = "extract"
	CategoryRegistry Category = "registry"
	CategoryXref     Category = "xref"
	CategoryCLI      Category = "cli"
)

var (
	mu   sync.Mutex
	base *zap.Logger
)

// Init builds the process-wide base logger. verbose selects debug-level
// output; enhancedErrors adds stack traces to warning-and-above entries.
// Safe to call more than once; the most recent call wins.
func Init(verbose, enhancedErrors bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	opts := []zap.Option{}
	if enhancedErrors {
		opts = append(opts, zap.AddStacktrace(zapcore.WarnLevel))
	}
	l, err := cfg.Build(opts...)
	if err != nil {
		return nil, err
	}
	mu.Lock()
	base = l
	mu.Unlock()
	return l, nil
}

// Get returns the named sub-logger for category. Before Init is called,
// or if it failed, Get returns a no-op logger so callers never need a
// nil check.
func Get(category Category) *zap.Logger {
	mu.Lock()
	b := base
	mu.Unlock()
	if b == nil {
		return zap.NewNop()
	}
	return b.Named(string(category))
}

// Sync flushes the base logger's buffered entries. Safe to call when Init
// was never called.
func Sync() {
	mu.Lock()
	b := base
	mu.Unlock()
	if b != nil {
		_ = b.Sync()
	}
}
