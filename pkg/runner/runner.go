// Package runner executes a single scalar animation to completion.
//
// A run is either live, stepping an integrator on every ticker pulse and
// feeding a tick callback, or batch, pre-simulating the whole trajectory and
// handing the resulting keyframes to a platform [Facility] for playback.
// Both modes expose the same [Controls].
package runner

import (
	"github.com/go-drift/transit/pkg/errors"
	"github.com/go-drift/transit/pkg/integrator"
	"github.com/go-drift/transit/pkg/ticker"
)

// Run modes reported to observability hooks.
const (
	ModeLive  = "live"
	ModeBatch = "batch"
	ModeEmpty = "empty"
)

// Controls is the control surface shared by every run.
type Controls interface {
	// Stop halts the run immediately. No callback fires afterwards.
	Stop()
	// Position returns the current position.
	Position() float64
	// Velocity returns the current velocity in position units per second.
	Velocity() float64
	// IsRunning reports whether the run has neither completed nor stopped.
	IsRunning() bool
}

// TickFunc receives the position on every live frame.
type TickFunc func(position float64)

// Options configures a run. Set Tick for live mode, Style and Facility for
// batch mode, or neither for a run that completes immediately.
type Options struct {
	Integrator integrator.Integrator
	From       float64
	To         float64
	Velocity   float64

	Tick     TickFunc
	Style    StyleFunc
	Facility Facility

	// MaxSamples caps batch pre-simulation. Zero means DefaultMaxSamples.
	MaxSamples int

	OnStart    func()
	OnComplete func()
}

// Start begins a run on t, or on the default ticker when t is nil.
// Configuration errors are returned before anything is scheduled.
func Start(t *ticker.Ticker, opts Options) (Controls, error) {
	if err := Validate(opts); err != nil {
		return nil, err
	}
	if t == nil {
		t = ticker.Default()
	}

	switch {
	case opts.Tick != nil:
		return startLive(t, opts), nil
	case opts.Style != nil:
		return startBatch(t, opts), nil
	default:
		return startEmpty(opts), nil
	}
}

// Validate reports the configuration error Start would return for opts.
func Validate(opts Options) error {
	const op = "runner.Start"
	switch {
	case opts.Tick != nil && opts.Style != nil:
		return errors.Config(op, errors.ErrConflictingModes)
	case opts.Style != nil && opts.Facility == nil:
		return errors.Config(op, errors.ErrMissingFacility)
	case (opts.Tick != nil || opts.Style != nil) && opts.Integrator == nil:
		return errors.Configf(op, errors.ErrInvalidParams, "integrator is required")
	}
	return nil
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
