// Package logging provides categorized file-based logging for pixelproof.
// Each category writes to its own file under the configured log directory.
// Until Initialize is called (or when it fails), every category returns a
// no-op logger so library code can log unconditionally.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category names a logging subsystem.
type Category string

const (
	CategoryOrchestrator Category = "orchestrator" // agent scheduling, hooks, run lifecycle
	CategoryVisual       Category = "visual"       // verification core decisions
	CategoryBaseline     Category = "baseline"     // baseline store reads/writes
	CategoryCapture      Category = "capture"      // browser capture producer
	CategoryWatch        Category = "watch"        // scenario file watcher
)

var (
	mu      sync.RWMutex
	loggers = make(map[Category]*zap.SugaredLogger)
	logsDir string
	level   zapcore.Level
	enabled bool
)

// Initialize sets the log directory and minimum level ("debug", "info",
// "warn", "error"). Call once at startup; safe to skip entirely.
func Initialize(dir, lvl string) error {
	if dir == "" {
		return fmt.Errorf("log directory required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	parsed, err := zapcore.ParseLevel(lvl)
	if err != nil {
		parsed = zapcore.InfoLevel
	}

	mu.Lock()
	defer mu.Unlock()
	logsDir = dir
	level = parsed
	enabled = true
	loggers = make(map[Category]*zap.SugaredLogger)
	return nil
}

// Get returns the logger for a category, creating its log file on first use.
func Get(category Category) *zap.SugaredLogger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	on := enabled
	mu.RUnlock()

	if !on {
		return zap.NewNop().Sugar()
	}

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}

	// Date prefix keeps rotation trivial: delete old files by name.
	name := fmt.Sprintf("%s_%s.log", time.Now().Format("2006-01-02"), category)
	f, err := os.OpenFile(filepath.Join(logsDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] could not open %s: %v\n", name, err)
		l := zap.NewNop().Sugar()
		loggers[category] = l
		return l
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(f), level)
	l := zap.New(core).Named(string(category)).Sugar()
	loggers[category] = l
	return l
}

// Sync flushes all category loggers. Call at shutdown.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	for _, l := range loggers {
		_ = l.Sync()
	}
}
