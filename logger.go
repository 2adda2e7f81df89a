package postfx

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for postfx and its sub-packages.
// By default, postfx produces no log output.
//
// SetLogger is safe for concurrent use. Pass nil to restore silence.
//
// Log levels used by postfx:
//   - [slog.LevelDebug]: dispatch sizes, accelerated or declined stages
//   - [slog.LevelInfo]: accelerator lifecycle (adapter selected, registered)
//   - [slog.LevelWarn]: CPU fallback after an accelerator error
//
// Example:
//
//	postfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	if a := Accelerator(); a != nil {
		propagateLogger(a, l)
	}
}

// Logger returns the current logger used by postfx.
// The gpu sub-package calls this to share the same configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by accelerators that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger passes the logger to an accelerator if it implements
// the loggerSetter interface.
func propagateLogger(a GPUAccelerator, l *slog.Logger) {
	if ls, ok := a.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}
