package errors

import (
	"os"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

var logger atomic.Pointer[log.Logger]

func init() {
	logger.Store(newLogger())
}

func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "transit",
		Level:  log.WarnLevel,
	})
}

// Logger returns the engine logger. Packages use it for debug traces that
// never surface as errors (skipped reconciliations, resolved pairs).
func Logger() *log.Logger {
	return logger.Load()
}

// SetLogger replaces the engine logger. Pass nil to restore the default,
// which writes warnings and above to stderr.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = newLogger()
	}
	logger.Store(l)
}

// LogHandler is an ErrorHandler that writes to the engine logger.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
}

// HandleError logs a MotionError.
func (h *LogHandler) HandleError(err *MotionError) {
	if err == nil {
		return
	}
	l := Logger()
	if h.Verbose {
		l.Error(err.Op, "kind", err.Kind, "err", err.Err, "at", err.Timestamp)
		return
	}
	l.Error(err.Op, "err", err.Err)
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	l := Logger()
	if h.Verbose && err.StackTrace != "" {
		l.Error("panic", "op", err.Op, "value", err.Value, "stack", err.StackTrace)
		return
	}
	l.Error("panic", "op", err.Op, "value", err.Value)
}
