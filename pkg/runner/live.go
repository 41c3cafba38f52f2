package runner

import (
	"time"

	"github.com/go-drift/transit/pkg/integrator"
	"github.com/go-drift/transit/pkg/observability"
	"github.com/go-drift/transit/pkg/ticker"
)

// liveRunner steps its integrator once per pulse.
type liveRunner struct {
	t     *ticker.Ticker
	in    integrator.Integrator
	to    float64
	state integrator.State
	opts  Options

	active      bool
	started     bool
	startedAt   time.Time
	settled     float64
	unsubscribe func()
}

func startLive(t *ticker.Ticker, opts Options) *liveRunner {
	r := &liveRunner{
		t:      t,
		in:     opts.Integrator,
		to:     opts.To,
		state:  integrator.State{Position: opts.From, Velocity: opts.Velocity},
		opts:   opts,
		active: true,
	}
	observability.Runner().OnRunnerStart(ModeLive, opts.From, opts.To)
	r.unsubscribe = t.Subscribe(r.tick)
	return r
}

func (r *liveRunner) tick(dt, _ float64) {
	if !r.active {
		return
	}
	if !r.started {
		r.started = true
		r.startedAt = r.t.Now()
		call(r.opts.OnStart)
		if !r.active {
			return
		}
	}

	r.state = r.in.Step(r.state, r.to, dt)

	if r.in.IsSettled(r.state, r.to) {
		r.settled += min(dt, integrator.MaxStep)
		if r.settled >= integrator.SettleDuration {
			r.complete()
			return
		}
	} else {
		r.settled = 0
	}
	r.opts.Tick(r.state.Position)
}

func (r *liveRunner) complete() {
	r.state = integrator.At(r.to)
	r.active = false
	r.opts.Tick(r.to)
	r.unsubscribe()
	observability.Runner().OnRunnerComplete(ModeLive, r.t.Now().Sub(r.startedAt))
	call(r.opts.OnComplete)
}

func (r *liveRunner) Stop() {
	if r.active {
		r.active = false
		r.unsubscribe()
	}
}

func (r *liveRunner) Position() float64 { return r.state.Position }
func (r *liveRunner) Velocity() float64 { return r.state.Velocity }
func (r *liveRunner) IsRunning() bool   { return r.active }
