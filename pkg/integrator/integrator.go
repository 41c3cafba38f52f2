// Package integrator provides the numerical step functions that advance a
// single scalar motion toward a target.
//
// An [Integrator] is pure: Step returns a new [State] and never mutates its
// input, so the same integrator may be shared by any number of runs.
package integrator

// Convergence thresholds shared by the built-in integrators.
const (
	// PositionThreshold is the maximum distance from target that counts as settled.
	PositionThreshold = 0.01
	// VelocityThreshold is the maximum speed that counts as settled.
	VelocityThreshold = 0.01
	// MaxStep is the largest time step, in seconds, applied in a single Step.
	MaxStep = 0.033
	// SettleDuration is how long, in seconds, a live run must remain settled
	// before it snaps to target.
	SettleDuration = 0.05
)

// State is the motion state of one scalar. Velocity is expressed in
// position units per second.
type State struct {
	Position float64
	Velocity float64

	// leader carries the hidden leader spring of a double spring.
	leader *State
}

// At returns a resting state at position p.
func At(p float64) State {
	return State{Position: p}
}

// Integrator advances a motion state toward a target.
type Integrator interface {
	// Step advances s toward target by dt seconds. A non-positive dt
	// returns s unchanged.
	Step(s State, target, dt float64) State

	// IsSettled reports whether s has converged to target.
	IsSettled(s State, target float64) bool
}

// Factory builds a fresh integrator for each run.
type Factory func() Integrator

func clampStep(dt float64) float64 {
	return min(dt, MaxStep)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
