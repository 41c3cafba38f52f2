package animation

import (
	"context"
	"fmt"
	"math"

	"github.com/go-drift/transit/pkg/errors"
	"github.com/go-drift/transit/pkg/integrator"
	"github.com/go-drift/transit/pkg/runner"
	"github.com/go-drift/transit/pkg/ticker"
)

// DefaultSpring is used when a config names no physics at all.
var DefaultSpring = integrator.SpringParams{Stiffness: 300, Damping: 30}

// Schedule controls when each item of a [Multi] starts relative to its
// predecessor.
type Schedule int

const (
	// ScheduleParallel starts every item together (offset 0).
	ScheduleParallel Schedule = iota
	// ScheduleSequential starts each item once its predecessor completes
	// (offset 1).
	ScheduleSequential
	// ScheduleChain uses each item's own Offset.
	ScheduleChain
)

func (s Schedule) String() string {
	switch s {
	case ScheduleParallel:
		return "parallel"
	case ScheduleSequential:
		return "sequential"
	case ScheduleChain:
		return "chain"
	default:
		return fmt.Sprintf("Schedule(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Schedule) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. "overlap" and "wait"
// are accepted as aliases of parallel and sequential.
func (s *Schedule) UnmarshalText(b []byte) error {
	switch string(b) {
	case "", "parallel", "overlap":
		*s = ScheduleParallel
	case "sequential", "wait":
		*s = ScheduleSequential
	case "chain":
		*s = ScheduleChain
	default:
		return fmt.Errorf("unknown schedule %q", b)
	}
	return nil
}

// Range is the [From, To] interval an animation travels.
type Range struct {
	From float64
	To   float64
}

// Hooks are transition-level callbacks shared by both config shapes.
type Hooks struct {
	// Prepare runs synchronously before the transition waits or starts.
	Prepare func()
	// Wait blocks until the transition may start. It runs off the UI
	// goroutine; a non-nil error aborts the transition.
	Wait func(ctx context.Context) error
	// OnStart fires when the animator starts.
	OnStart func()
	// OnEnd fires once, after every item has completed.
	OnEnd func()
	// OnProgress reports completed items after each item completes.
	OnProgress func(done, total int)
}

// SpringItem is one independently simulated scalar of a [MultiConfig].
// At most one of Spring, Inertia and Integrator may be set; none means
// [DefaultSpring]. Tick selects live mode, Style batch mode, and neither
// an item that completes immediately.
type SpringItem struct {
	Spring     *integrator.SpringParams
	Inertia    *integrator.InertiaParams
	Integrator integrator.Factory

	Tick  runner.TickFunc
	Style runner.StyleFunc

	// Offset is the predecessor progress in [0, 1] at which this item
	// starts. Only ScheduleChain reads it.
	Offset float64

	OnStart    func()
	OnComplete func()

	factory integrator.Factory
}

// TransitionConfig is either a [SingleConfig] or a [MultiConfig].
type TransitionConfig interface {
	transitionConfig()
}

// SingleConfig describes a transition driven by one spring.
type SingleConfig struct {
	Spring     *integrator.SpringParams
	Inertia    *integrator.InertiaParams
	Integrator integrator.Factory

	Tick  runner.TickFunc
	Style runner.StyleFunc

	// Range defaults to the direction's natural range when nil.
	Range *Range

	Hooks
}

// MultiConfig describes a transition driven by several springs over a
// shared range.
type MultiConfig struct {
	Springs  []SpringItem
	Schedule Schedule
	Range    *Range

	Hooks
}

func (SingleConfig) transitionConfig() {}
func (MultiConfig) transitionConfig()  {}

// Env carries the collaborators an animator runs against.
type Env struct {
	// Ticker drives live runs. Nil means ticker.Default().
	Ticker *ticker.Ticker
	// Facility plays batch runs. Required when any item sets Style.
	Facility runner.Facility
}

func (e Env) ticker() *ticker.Ticker {
	if e.Ticker != nil {
		return e.Ticker
	}
	return ticker.Default()
}

// Normalize converts cfg to a validated [MultiConfig]. A single config
// becomes a one-item parallel schedule. Every integrator is built here, so
// invalid physics fails before anything starts.
func Normalize(cfg TransitionConfig, facility runner.Facility) (MultiConfig, error) {
	const op = "animation.Normalize"

	var mc MultiConfig
	switch c := cfg.(type) {
	case SingleConfig:
		mc = single(c)
	case *SingleConfig:
		if c == nil {
			return MultiConfig{}, errors.Config(op, errors.ErrNoSprings)
		}
		mc = single(*c)
	case MultiConfig:
		mc = c
	case *MultiConfig:
		if c == nil {
			return MultiConfig{}, errors.Config(op, errors.ErrNoSprings)
		}
		mc = *c
	default:
		return MultiConfig{}, errors.Config(op, errors.ErrNoSprings)
	}

	if len(mc.Springs) == 0 {
		return MultiConfig{}, errors.Config(op, errors.ErrNoSprings)
	}
	if mc.Schedule < ScheduleParallel || mc.Schedule > ScheduleChain {
		return MultiConfig{}, errors.Configf(op, errors.ErrInvalidParams, "unknown schedule %d", int(mc.Schedule))
	}

	springs := make([]SpringItem, len(mc.Springs))
	for i, it := range mc.Springs {
		switch {
		case it.Tick != nil && it.Style != nil:
			return MultiConfig{}, errors.Configf(op, errors.ErrConflictingModes, "spring %d", i)
		case it.Style != nil && facility == nil:
			return MultiConfig{}, errors.Configf(op, errors.ErrMissingFacility, "spring %d", i)
		case math.IsNaN(it.Offset) || it.Offset < 0 || it.Offset > 1:
			return MultiConfig{}, errors.Configf(op, errors.ErrInvalidOffset, "spring %d has offset %v", i, it.Offset)
		}
		f, err := physics(op, it.Spring, it.Inertia, it.Integrator)
		if err != nil {
			return MultiConfig{}, err
		}
		it.factory = f
		springs[i] = it
	}
	mc.Springs = springs
	return mc, nil
}

func single(c SingleConfig) MultiConfig {
	return MultiConfig{
		Springs: []SpringItem{{
			Spring:     c.Spring,
			Inertia:    c.Inertia,
			Integrator: c.Integrator,
			Tick:       c.Tick,
			Style:      c.Style,
		}},
		Schedule: ScheduleParallel,
		Range:    c.Range,
		Hooks:    c.Hooks,
	}
}

// physics resolves the integrator factory for one animator. The built-in
// integrators keep no per-run state, so one instance serves every run.
func physics(op string, sp *integrator.SpringParams, in *integrator.InertiaParams, f integrator.Factory) (integrator.Factory, error) {
	n := 0
	if sp != nil {
		n++
	}
	if in != nil {
		n++
	}
	if f != nil {
		n++
	}
	if n > 1 {
		return nil, errors.Config(op, errors.ErrConflictingPhysics)
	}

	switch {
	case f != nil:
		return f, nil
	case in != nil:
		ig, err := integrator.FromInertia(*in)
		if err != nil {
			return nil, err
		}
		return func() integrator.Integrator { return ig }, nil
	default:
		p := DefaultSpring
		if sp != nil {
			p = *sp
		}
		ig, err := integrator.FromSpring(p)
		if err != nil {
			return nil, err
		}
		return func() integrator.Integrator { return ig }, nil
	}
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
