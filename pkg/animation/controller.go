package animation

import (
	"fmt"

	"github.com/go-drift/transit/pkg/errors"
	"github.com/go-drift/transit/pkg/integrator"
	"github.com/go-drift/transit/pkg/runner"
	"github.com/go-drift/transit/pkg/ticker"
)

// Status represents the current state of an animator.
//
// The status follows this state machine:
//
//	        Forward() / Backward()
//	Idle ─────────────────────────► Forward | Backward ───► Completed
//	                                      │    ▲
//	                               Stop() │    │ Forward() / Backward()
//	                                      ▼    │
//	                                     Stopped
//
// Reverse keeps the status and flips the target.
type Status int

const (
	// StatusIdle means the animator has never run.
	StatusIdle Status = iota
	// StatusForward means the animator is running toward To.
	StatusForward
	// StatusBackward means the animator is running toward From.
	StatusBackward
	// StatusCompleted means the last run reached its target.
	StatusCompleted
	// StatusStopped means the last run was halted before reaching its target.
	StatusStopped
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusForward:
		return "forward"
	case StatusBackward:
		return "backward"
	case StatusCompleted:
		return "completed"
	case StatusStopped:
		return "stopped"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Snapshot is the observable state of an animator.
type Snapshot struct {
	Position float64
	Velocity float64
	From     float64
	To       float64
}

// Animator is the control surface shared by [Single] and [Multi].
type Animator interface {
	Forward()
	Backward()
	Reverse()
	Stop()
	Snapshot() Snapshot
	SetState(position, velocity float64)
	IsAnimating() bool
}

// Options configures a [Single]. At most one of Spring, Inertia and
// Integrator may be set; none means [DefaultSpring].
type Options struct {
	From float64
	To   float64

	Spring     *integrator.SpringParams
	Inertia    *integrator.InertiaParams
	Integrator integrator.Factory

	Tick       runner.TickFunc
	Style      runner.StyleFunc
	MaxSamples int

	OnStart    func()
	OnComplete func()

	Env
}

// Single drives one scalar between From and To with a physics integrator.
// It owns at most one runner; starting a new run stops the previous one and
// carries its position and velocity over.
//
// All methods must be called from the goroutine that pulses the ticker.
type Single struct {
	opts    Options
	ticker  *ticker.Ticker
	factory integrator.Factory

	from, to float64
	value    float64
	velocity float64
	target   float64

	status   Status
	controls runner.Controls
	gen      int

	statusListeners map[int]func(Status)
	nextListenerID  int
}

// NewSingle validates opts and returns an idle animator positioned at From.
func NewSingle(opts Options) (*Single, error) {
	const op = "animation.NewSingle"

	f, err := physics(op, opts.Spring, opts.Inertia, opts.Integrator)
	if err != nil {
		return nil, err
	}
	if err := runner.Validate(runner.Options{
		Integrator: f(),
		Tick:       opts.Tick,
		Style:      opts.Style,
		Facility:   opts.Facility,
	}); err != nil {
		return nil, err
	}

	return &Single{
		opts:            opts,
		ticker:          opts.Env.ticker(),
		factory:         f,
		from:            opts.From,
		to:              opts.To,
		value:           opts.From,
		target:          opts.To,
		statusListeners: make(map[int]func(Status)),
	}, nil
}

// Forward runs from the current state toward To.
func (s *Single) Forward() {
	s.animateTo(s.to, StatusForward)
}

// Backward runs from the current state toward From.
func (s *Single) Backward() {
	s.animateTo(s.from, StatusBackward)
}

// AnimateTo runs from the current state toward target.
func (s *Single) AnimateTo(target float64) {
	if target == s.from && target != s.to {
		s.animateTo(target, StatusBackward)
		return
	}
	s.animateTo(target, StatusForward)
}

// Reverse swaps From and To. A running animation turns around in place,
// keeping its velocity.
func (s *Single) Reverse() {
	s.from, s.to = s.to, s.from
	switch s.status {
	case StatusForward:
		s.animateTo(s.to, StatusForward)
	case StatusBackward:
		s.animateTo(s.from, StatusBackward)
	}
}

func (s *Single) animateTo(target float64, direction Status) {
	s.halt()
	s.target = target
	gen := s.gen
	s.setStatus(direction)

	ctl, err := runner.Start(s.ticker, runner.Options{
		Integrator: s.factory(),
		From:       s.value,
		To:         target,
		Velocity:   s.velocity,
		Tick:       s.opts.Tick,
		Style:      s.opts.Style,
		Facility:   s.opts.Facility,
		MaxSamples: s.opts.MaxSamples,
		OnStart:    s.opts.OnStart,
		OnComplete: func() { s.complete(gen) },
	})
	if err != nil {
		var me *errors.MotionError
		if errors.As(err, &me) {
			errors.Report(me)
		}
		s.setStatus(StatusStopped)
		return
	}
	// An empty run completes inside Start.
	if gen == s.gen && s.IsAnimating() {
		s.controls = ctl
	}
}

func (s *Single) complete(gen int) {
	if gen != s.gen {
		return
	}
	s.gen++
	s.controls = nil
	s.value = s.target
	s.velocity = 0
	s.setStatus(StatusCompleted)
	call(s.opts.OnComplete)
}

// halt stops the runner, keeping its last position and velocity.
func (s *Single) halt() {
	s.gen++
	if s.controls == nil {
		return
	}
	s.value = s.controls.Position()
	s.velocity = s.controls.Velocity()
	s.controls.Stop()
	s.controls = nil
}

// Stop halts the current run. No callback of that run fires afterwards.
func (s *Single) Stop() {
	running := s.IsAnimating()
	s.halt()
	if running {
		s.setStatus(StatusStopped)
	}
}

// SetState stops any run and seeds the position and velocity the next run
// starts from.
func (s *Single) SetState(position, velocity float64) {
	s.Stop()
	s.value = position
	s.velocity = velocity
}

// Snapshot returns the live position and velocity with the current range.
func (s *Single) Snapshot() Snapshot {
	snap := Snapshot{Position: s.value, Velocity: s.velocity, From: s.from, To: s.to}
	if s.controls != nil {
		snap.Position = s.controls.Position()
		snap.Velocity = s.controls.Velocity()
	}
	return snap
}

// IsAnimating reports whether a run is in progress.
func (s *Single) IsAnimating() bool {
	return s.status == StatusForward || s.status == StatusBackward
}

// Status returns the current status.
func (s *Single) Status() Status {
	return s.status
}

// AddStatusListener adds a callback that fires when the status changes.
// Returns an unsubscribe function.
func (s *Single) AddStatusListener(fn func(Status)) func() {
	id := s.nextListenerID
	s.nextListenerID++
	s.statusListeners[id] = fn
	return func() {
		delete(s.statusListeners, id)
	}
}

func (s *Single) setStatus(status Status) {
	if s.status == status {
		return
	}
	s.status = status
	for _, fn := range s.statusListeners {
		fn(status)
	}
}

// Dispose stops the animator and releases its listeners.
func (s *Single) Dispose() {
	s.Stop()
	clear(s.statusListeners)
}
