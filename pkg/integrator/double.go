package integrator

import (
	"github.com/go-drift/transit/pkg/errors"
)

// DoubleSpring configures the follower of a leader/follower spring pair.
// The zero value makes the follower identical to the leader.
type DoubleSpring struct {
	// Ratio scales the leader stiffness for the follower. Must be in (0, 1]
	// when set. Smaller ratios give a stronger ease-in.
	Ratio float64 `yaml:"ratio,omitempty" toml:"ratio,omitempty"`

	// Follower gives explicit follower parameters. Takes precedence over Ratio.
	Follower *SpringParams `yaml:"follower,omitempty" toml:"follower,omitempty"`
}

func (d *DoubleSpring) validate() error {
	const op = "integrator.DoubleSpring"
	if d.Follower != nil {
		f := *d.Follower
		f.Double = nil
		return f.Validate()
	}
	// Zero means unset.
	if d.Ratio != 0 && !(d.Ratio > 0 && d.Ratio <= 1) {
		return errors.Configf(op, errors.ErrInvalidParams, "ratio must be in (0, 1], got %v", d.Ratio)
	}
	return nil
}

// Double chains two springs: the leader tracks the target and the follower,
// whose state is the output, tracks the leader.
type Double struct {
	leader   *Spring
	follower *Spring
}

// NewDoubleSpring returns a leader/follower integrator. A nil p.Double is
// treated as the zero DoubleSpring.
func NewDoubleSpring(p SpringParams) (*Double, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	d := DoubleSpring{}
	if p.Double != nil {
		d = *p.Double
	}

	fs, fd := p.Stiffness, p.Damping
	switch {
	case d.Follower != nil:
		fs, fd = d.Follower.Stiffness, d.Follower.Damping
	case d.Ratio > 0:
		fs = p.Stiffness * d.Ratio
	}
	return &Double{
		leader:   newSpring(p.Stiffness, p.Damping),
		follower: newSpring(fs, fd),
	}, nil
}

// Step advances the leader toward target, then the follower toward the
// leader's new position. A state without a leader seeds it from the output.
func (d *Double) Step(s State, target, dt float64) State {
	if dt <= 0 {
		return s
	}
	lead := State{Position: s.Position, Velocity: s.Velocity}
	if s.leader != nil {
		lead = *s.leader
	}
	lead = d.leader.Step(lead, target, dt)
	out := d.follower.Step(State{Position: s.Position, Velocity: s.Velocity}, lead.Position, dt)
	out.leader = &lead
	return out
}

// IsSettled requires the follower and, once it exists, the leader to be settled.
func (d *Double) IsSettled(s State, target float64) bool {
	if !d.follower.IsSettled(s, target) {
		return false
	}
	if s.leader == nil {
		return true
	}
	return d.leader.IsSettled(*s.leader, target)
}
