// Package errors provides structured error handling for the transit engine.
//
// Configuration problems are reported as [*MotionError] values with
// [KindConfig] at setup time, before any animation starts. Pairing and drift
// problems never surface as errors from the public API; they degrade to a
// "no transition" result or a skipped reconciliation and are only logged.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConfig indicates an invalid or conflicting configuration.
	KindConfig
	// KindPairing is reserved for a navigation pair that could not be
	// resolved. The engine never returns it; an unresolved pair is a "no
	// transition" result.
	KindPairing
	// KindDrift is reserved for a failed batch playback reconciliation. The
	// engine never returns it; a failed reconciliation is logged and skipped.
	KindDrift
	// KindSimulation indicates a trajectory simulation that hit its sample cap.
	KindSimulation
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindPairing:
		return "pairing"
	case KindDrift:
		return "drift"
	case KindSimulation:
		return "simulation"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Sentinel causes wrapped by [MotionError].
var (
	ErrConflictingModes    = stderrors.New("cannot use both tick and style modes together")
	ErrConflictingPhysics  = stderrors.New("cannot combine spring, inertia and integrator options")
	ErrInvalidParams       = stderrors.New("invalid physics parameters")
	ErrInvalidOffset       = stderrors.New("spring offset must be within [0, 1]")
	ErrNoSprings           = stderrors.New("transition config has no springs")
	ErrMissingFacility     = stderrors.New("style mode requires a batch animation facility")
	ErrTrajectoryTruncated = stderrors.New("simulation did not settle within the sample cap")
)

// MotionError represents a structured error in the transit engine.
type MotionError struct {
	// Op is the operation that failed (e.g., "integrator.NewSpring").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *MotionError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *MotionError) Unwrap() error {
	return e.Err
}

// Config returns a KindConfig error for op wrapping err.
func Config(op string, err error) *MotionError {
	return &MotionError{Op: op, Kind: KindConfig, Err: err}
}

// Configf returns a KindConfig error whose cause wraps sentinel with a
// formatted detail message.
func Configf(op string, sentinel error, format string, args ...any) *MotionError {
	return &MotionError{
		Op:   op,
		Kind: KindConfig,
		Err:  fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...)),
	}
}

// IsKind reports whether err is a MotionError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var me *MotionError
	if !stderrors.As(err, &me) {
		return false
	}
	return me.Kind == kind
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool { return stderrors.As(err, target) }

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "ticker.Pulse").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by the engine.
type ErrorHandler interface {
	// HandleError is called when an error is reported.
	HandleError(err *MotionError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
