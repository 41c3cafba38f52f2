package transition

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/go-drift/transit/pkg/animation"
	"github.com/go-drift/transit/pkg/errors"
	"github.com/go-drift/transit/pkg/ticker"
)

// State is what a [Controller] is currently animating.
type State int

const (
	// StateIdle means nothing is running.
	StateIdle State = iota
	// StateRunningIn means an enter animation is running or waiting to start.
	StateRunningIn
	// StateRunningOut means an exit animation is running or waiting to start.
	StateRunningOut
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunningIn:
		return "running-in"
	case StateRunningOut:
		return "running-out"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

func running(d Direction) State {
	if d == Out {
		return StateRunningOut
	}
	return StateRunningIn
}

// Controller applies a [Strategy] to one element's enter and exit triggers.
//
// In and Out must be called from the goroutine that pulses the ticker. A
// config's Wait hook runs on its own goroutine; the animation then starts
// through [ticker.Ticker.Dispatch] unless a later trigger superseded it.
type Controller struct {
	id       string
	configs  Configs
	strategy Strategy
	env      animation.Env
	cleanup  func()
	log      *log.Logger

	state   State
	current *Current
	gen     int
	cancel  context.CancelFunc
}

// NewController returns an idle controller for configs.
func NewController(configs Configs, opts ...Option) *Controller {
	c := &Controller{
		id:       uuid.NewString(),
		configs:  configs,
		strategy: DefaultStrategy{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.env.Ticker == nil {
		c.env.Ticker = ticker.Default()
	}
	c.log = errors.Logger().With("transition", c.id[:8])
	return c
}

// ID returns the controller's unique identifier.
func (c *Controller) ID() string { return c.id }

// State returns what the controller is animating.
func (c *Controller) State() State { return c.state }

// Current returns the running animation, or nil.
func (c *Controller) Current() *Current { return c.current }

// In triggers the enter transition. Only configuration errors are returned.
func (c *Controller) In(ctx context.Context) error {
	return c.trigger(ctx, In)
}

// Out triggers the exit transition. Only configuration errors are returned.
func (c *Controller) Out(ctx context.Context) error {
	return c.trigger(ctx, Out)
}

func (c *Controller) trigger(ctx context.Context, d Direction) error {
	c.gen++
	gen := c.gen
	c.abortWait()

	var setup Setup
	if d == In {
		setup = c.strategy.RunIn(c.current, c.configs)
	} else {
		setup = c.strategy.RunOut(c.current, c.configs)
	}

	if setup.Reversed {
		c.current.Direction = d
		c.state = running(d)
		c.log.Debug("reversed in place", "dir", d)
		return nil
	}
	if setup.Config == nil {
		c.log.Debug("no config", "dir", d)
		if c.current != nil && c.current.Animator.IsAnimating() {
			c.current.Direction = d
			c.state = running(d)
			return nil
		}
		c.finish(d)
		return nil
	}

	mc, err := animation.Normalize(setup.Config, c.env.Facility)
	if err != nil {
		return err
	}
	r := setup.Range
	mc.Range = &r
	hooks := mc.Hooks
	mc.OnEnd = func() { c.ended(gen, hooks.OnEnd) }

	m, err := animation.NewMulti(mc, c.env)
	if err != nil {
		return err
	}

	c.state = running(d)
	if hooks.Prepare != nil {
		hooks.Prepare()
	}

	start := func() {
		if gen != c.gen {
			return
		}
		if c.current != nil {
			c.current.Animator.Stop()
		}
		m.SetState(setup.Position, setup.Velocity)
		c.current = &Current{Animator: m, Direction: d}
		c.log.Debug("start", "dir", d, "from", setup.Position, "backward", setup.Direction == animation.StatusBackward)
		if setup.Direction == animation.StatusBackward {
			m.Backward()
		} else {
			m.Forward()
		}
	}

	if hooks.Wait == nil {
		start()
		return nil
	}

	wctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	t := c.env.Ticker
	go func() {
		err := hooks.Wait(wctx)
		t.Dispatch(func() {
			cancel()
			if gen != c.gen {
				return
			}
			c.cancel = nil
			if err != nil {
				c.log.Debug("wait aborted", "dir", d, "err", err)
				c.finish(d)
				return
			}
			start()
		})
	}()
	return nil
}

func (c *Controller) ended(gen int, onEnd func()) {
	if c.current == nil {
		return
	}
	d := c.current.Direction
	c.current = nil
	// A newer trigger still inside its Wait owns the state and the cleanup.
	pending := gen != c.gen && c.cancel != nil
	if !pending {
		c.state = StateIdle
	}
	if onEnd != nil {
		onEnd()
	}
	c.log.Debug("end", "dir", d, "superseded", gen != c.gen, "pending", pending)
	if !pending && d == Out && c.cleanup != nil {
		c.cleanup()
	}
}

// finish settles a trigger that started nothing.
func (c *Controller) finish(d Direction) {
	if c.current != nil {
		c.current.Animator.Stop()
		c.current = nil
	}
	c.state = StateIdle
	if d == Out && c.cleanup != nil {
		c.cleanup()
	}
}

func (c *Controller) abortWait() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Stop halts any running animation and drops any pending start. No hook
// fires afterwards.
func (c *Controller) Stop() {
	c.gen++
	c.abortWait()
	if c.current != nil {
		c.current.Animator.Stop()
		c.current = nil
	}
	c.state = StateIdle
}
