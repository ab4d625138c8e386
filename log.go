package singleton

import (
	"log/slog"
	"os"
	"sync/atomic"
)

var defaultLogger atomic.Pointer[slog.Logger]

// SetDefaultErrorLogger replaces the *slog.Logger this package writes
// recovered panics and detach warnings to.
func SetDefaultErrorLogger(l *slog.Logger) {
	defaultLogger.Store(l)
}

func logger() *slog.Logger {
	if l := defaultLogger.Load(); l != nil {
		return l
	}

	l := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	defaultLogger.CompareAndSwap(nil, l)

	return defaultLogger.Load()
}
