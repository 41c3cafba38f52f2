package runner

import "github.com/go-drift/transit/pkg/observability"

// emptyRun has no visual sink: it starts and completes synchronously.
type emptyRun struct {
	to float64
}

func startEmpty(opts Options) emptyRun {
	observability.Runner().OnRunnerStart(ModeEmpty, opts.From, opts.To)
	call(opts.OnStart)
	observability.Runner().OnRunnerComplete(ModeEmpty, 0)
	call(opts.OnComplete)
	return emptyRun{to: opts.To}
}

func (emptyRun) Stop()               {}
func (e emptyRun) Position() float64 { return e.to }
func (emptyRun) Velocity() float64   { return 0 }
func (emptyRun) IsRunning() bool     { return false }
