package integrator

import (
	"fmt"
	"math"

	"github.com/go-drift/transit/pkg/errors"
)

// ResistanceType selects how drag scales with velocity.
type ResistanceType int

const (
	// ResistanceQuadratic applies drag proportional to v·|v|.
	ResistanceQuadratic ResistanceType = iota
	// ResistanceLinear applies drag proportional to v.
	ResistanceLinear
)

func (r ResistanceType) String() string {
	switch r {
	case ResistanceLinear:
		return "linear"
	case ResistanceQuadratic:
		return "quadratic"
	default:
		return fmt.Sprintf("ResistanceType(%d)", int(r))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r ResistanceType) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *ResistanceType) UnmarshalText(b []byte) error {
	switch string(b) {
	case "", "quadratic":
		*r = ResistanceQuadratic
	case "linear":
		*r = ResistanceLinear
	default:
		return fmt.Errorf("unknown resistance type %q", string(b))
	}
	return nil
}

// Default bounce spring for bounded inertia.
const (
	DefaultBounceStiffness = 500
	DefaultBounceDamping   = 10
)

// InertiaParams configures acceleration-driven motion with drag.
type InertiaParams struct {
	Acceleration   float64        `yaml:"acceleration" toml:"acceleration"`
	Resistance     float64        `yaml:"resistance" toml:"resistance"`
	ResistanceType ResistanceType `yaml:"resistanceType,omitempty" toml:"resistance_type,omitempty"`

	// Min and Max optionally bound the position. Outside the bounds a bounce
	// spring pulls the motion back to the violated boundary.
	Min *float64 `yaml:"min,omitempty" toml:"min,omitempty"`
	Max *float64 `yaml:"max,omitempty" toml:"max,omitempty"`

	// BounceStiffness and BounceDamping default to DefaultBounceStiffness and
	// DefaultBounceDamping when zero.
	BounceStiffness float64 `yaml:"bounceStiffness,omitempty" toml:"bounce_stiffness,omitempty"`
	BounceDamping   float64 `yaml:"bounceDamping,omitempty" toml:"bounce_damping,omitempty"`
}

// Validate reports a configuration error for invalid inertia parameters.
func (p InertiaParams) Validate() error {
	const op = "integrator.InertiaParams"
	switch {
	case !(p.Acceleration > 0) || math.IsInf(p.Acceleration, 0):
		return errors.Configf(op, errors.ErrInvalidParams, "acceleration must be > 0, got %v", p.Acceleration)
	case !(p.Resistance >= 0) || math.IsInf(p.Resistance, 0):
		return errors.Configf(op, errors.ErrInvalidParams, "resistance must be >= 0, got %v", p.Resistance)
	case p.BounceStiffness < 0 || p.BounceDamping < 0:
		return errors.Configf(op, errors.ErrInvalidParams, "bounce spring must be non-negative")
	case p.Min != nil && p.Max != nil && *p.Min > *p.Max:
		return errors.Configf(op, errors.ErrInvalidParams, "min %v exceeds max %v", *p.Min, *p.Max)
	}
	return nil
}

// Inertia accelerates toward the target against velocity-dependent drag and
// never overshoots it.
type Inertia struct {
	p InertiaParams
}

// NewInertia returns an inertia integrator.
func NewInertia(p InertiaParams) (*Inertia, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.BounceStiffness == 0 {
		p.BounceStiffness = DefaultBounceStiffness
	}
	if p.BounceDamping == 0 {
		p.BounceDamping = DefaultBounceDamping
	}
	return &Inertia{p: p}, nil
}

// Step advances s by at most MaxStep seconds. Reaching or passing the target
// clamps to it with zero velocity.
func (in *Inertia) Step(s State, target, dt float64) State {
	if dt <= 0 {
		return s
	}
	h := clampStep(dt)
	x, v := s.Position, s.Velocity

	below := in.p.Min != nil && x < *in.p.Min
	above := in.p.Max != nil && x > *in.p.Max

	var a float64
	if below || above {
		boundary := *in.p.Max
		if below {
			boundary = *in.p.Min
		}
		a = -in.p.BounceStiffness*(x-boundary) - in.p.BounceDamping*v
	} else {
		a = direction(x, target)*in.p.Acceleration - in.drag(v)
	}

	nv := v + a*h
	nx := x + nv*h

	if !below && !above {
		if dir := direction(x, target); (dir > 0 && nx > target) || (dir < 0 && nx < target) {
			nx = target
		}
	}
	if nx == target {
		nv = 0
	}
	return State{Position: nx, Velocity: nv}
}

func (in *Inertia) drag(v float64) float64 {
	if in.p.ResistanceType == ResistanceLinear {
		return in.p.Resistance * v
	}
	return in.p.Resistance * v * abs(v)
}

// IsSettled checks position only. Terminal velocity, not decay, defines arrival.
func (in *Inertia) IsSettled(s State, target float64) bool {
	return abs(target-s.Position) < PositionThreshold
}

func direction(x, target float64) float64 {
	if target > x {
		return 1
	}
	return -1
}
