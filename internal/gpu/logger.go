//go:build !nogpu

package gpu

import (
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/postfx"
)

// loggerPtr holds the logger pushed by postfx.SetLogger through
// Accelerator.SetLogger. Nil until the first propagation.
var loggerPtr atomic.Pointer[slog.Logger]

// slogger returns the propagated logger, or postfx's own logger before
// any propagation. All logging in internal/gpu goes through it.
func slogger() *slog.Logger {
	if l := loggerPtr.Load(); l != nil {
		return l
	}
	return postfx.Logger()
}

// setLogger records l. Nil falls back to postfx.Logger.
func setLogger(l *slog.Logger) {
	loggerPtr.Store(l)
}
