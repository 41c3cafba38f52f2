package integrator

import (
	"math"

	"github.com/go-drift/transit/pkg/errors"
)

// SpringParams configures a damped spring with unit mass.
type SpringParams struct {
	Stiffness float64 `yaml:"stiffness" toml:"stiffness"`
	Damping   float64 `yaml:"damping" toml:"damping"`

	// Double selects a leader/follower composition. Nil means a single spring.
	Double *DoubleSpring `yaml:"double,omitempty" toml:"double,omitempty"`
}

// Validate reports a configuration error for non-positive stiffness or
// negative damping.
func (p SpringParams) Validate() error {
	const op = "integrator.SpringParams"
	if !(p.Stiffness > 0) || math.IsInf(p.Stiffness, 0) {
		return errors.Configf(op, errors.ErrInvalidParams, "stiffness must be > 0, got %v", p.Stiffness)
	}
	if !(p.Damping >= 0) || math.IsInf(p.Damping, 0) {
		return errors.Configf(op, errors.ErrInvalidParams, "damping must be >= 0, got %v", p.Damping)
	}
	if p.Double != nil {
		return p.Double.validate()
	}
	return nil
}

// Spring integrates a damped harmonic oscillator with semi-implicit Euler.
type Spring struct {
	omega float64
	zeta  float64
}

// NewSpring returns a spring integrator. Double is ignored; use
// [NewDoubleSpring] or [FromSpring] for leader/follower springs.
func NewSpring(p SpringParams) (*Spring, error) {
	p.Double = nil
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return newSpring(p.Stiffness, p.Damping), nil
}

func newSpring(stiffness, damping float64) *Spring {
	root := math.Sqrt(stiffness)
	return &Spring{
		omega: root,
		zeta:  damping / (2 * root),
	}
}

// Step advances s by at most MaxStep seconds.
func (sp *Spring) Step(s State, target, dt float64) State {
	if dt <= 0 {
		return s
	}
	h := clampStep(dt)
	v := s.Velocity +
		h*(-2*sp.zeta*sp.omega*s.Velocity) +
		h*sp.omega*sp.omega*(target-s.Position)
	return State{
		Position: s.Position + h*v,
		Velocity: v,
	}
}

// IsSettled requires both position and velocity below threshold.
func (sp *Spring) IsSettled(s State, target float64) bool {
	return abs(target-s.Position) < PositionThreshold && abs(s.Velocity) < VelocityThreshold
}
