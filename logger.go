package gfx

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for gfx and all of its backends.
// By default gfx produces no log output. Pass nil to restore that.
//
// Log levels used by gfx:
//   - [slog.LevelDebug]: pipeline cache misses, bind group sizes, unknown uniform names
//   - [slog.LevelInfo]: backend and adapter selection
//   - [slog.LevelWarn]: usage-contract violations that were degraded gracefully
//   - [slog.LevelError]: fatal device failures, logged just before panicking
//
// Example:
//
//	gfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by gfx.
// Backend packages call this to share one logger configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
