package texpaint

import (
	"log/slog"
	"sync/atomic"
)

// discard is the default logger. Its handler reports every level as
// disabled, so log calls cost nothing until SetLogger is called.
var discard = slog.New(slog.DiscardHandler)

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(discard)
}

// SetLogger sets the logger used by the engine and the registered
// accelerator. Pass nil to restore the default, which discards everything.
//
// Levels:
//   - [slog.LevelDebug]: kernel dispatch, history and fill diagnostics
//   - [slog.LevelInfo]: bind, unbind and accelerator selection
//   - [slog.LevelWarn]: CPU fallback, corrupt snapshots, failed pushes
//
// SetLogger is safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = discard
	}
	loggerPtr.Store(l)

	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	if a != nil {
		propagateLogger(a, l)
	}
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by accelerators that log on their own.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

func propagateLogger(a ComputeDispatch, l *slog.Logger) {
	if ls, ok := a.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}
