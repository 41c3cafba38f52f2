package integrator

import (
	"github.com/charmbracelet/harmonica"
)

// Harmonica wraps the analytic damped oscillator from charmbracelet/harmonica.
// It solves each step in closed form rather than by Euler integration and is
// offered as a custom integrator through [Factory].
type Harmonica struct {
	freq  float64
	ratio float64
}

// NewHarmonica returns an integrator equivalent in parameters to p.
func NewHarmonica(p SpringParams) (*Harmonica, error) {
	p.Double = nil
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s := newSpring(p.Stiffness, p.Damping)
	return &Harmonica{freq: s.omega, ratio: s.zeta}, nil
}

// Step advances s by at most MaxStep seconds.
func (h *Harmonica) Step(s State, target, dt float64) State {
	if dt <= 0 {
		return s
	}
	sp := harmonica.NewSpring(clampStep(dt), h.freq, h.ratio)
	x, v := sp.Update(s.Position, s.Velocity, target)
	return State{Position: x, Velocity: v}
}

// IsSettled requires both position and velocity below threshold.
func (h *Harmonica) IsSettled(s State, target float64) bool {
	return abs(target-s.Position) < PositionThreshold && abs(s.Velocity) < VelocityThreshold
}

// HarmonicaFactory returns a factory that builds harmonica-backed integrators.
func HarmonicaFactory(p SpringParams) (Factory, error) {
	if _, err := NewHarmonica(p); err != nil {
		return nil, err
	}
	return func() Integrator {
		h, _ := NewHarmonica(p)
		return h
	}, nil
}
