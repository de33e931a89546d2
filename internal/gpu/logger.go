//go:build !nogpu

package gpu

import (
	"log/slog"

	"github.com/gogpu/texpaint"
)

// SetLogger sets the logger for the GPU backend. It is called when the
// accelerator is registered and whenever texpaint.SetLogger changes the
// logger. Nil falls back to texpaint.Logger.
func (a *Accelerator) SetLogger(l *slog.Logger) {
	a.logger.Store(l)
}

// log returns the logger all output of the accelerator goes through.
func (a *Accelerator) log() *slog.Logger {
	if l := a.logger.Load(); l != nil {
		return l
	}
	return texpaint.Logger()
}
