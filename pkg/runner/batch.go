package runner

import (
	"time"

	"github.com/go-drift/transit/pkg/errors"
	"github.com/go-drift/transit/pkg/observability"
	"github.com/go-drift/transit/pkg/ticker"
)

// Keyframe is a style map for one sampled frame, e.g. {"transform": "translateX(12px)"}.
type Keyframe map[string]string

// StyleFunc converts a position into a keyframe.
type StyleFunc func(position float64) Keyframe

// Facility is a platform batch-animation service that plays keyframes on its
// own clock.
type Facility interface {
	// Play starts linear playback of keyframes spread evenly over duration.
	Play(keyframes []Keyframe, duration time.Duration) Playback
	// RenderedTransform returns the transform currently on screen.
	RenderedTransform() (string, bool)
}

// Playback is a handle to a running batch animation. Callbacks may be
// invoked from any goroutine.
type Playback interface {
	Cancel()
	// OnFinish registers fn to run when playback reaches its end.
	OnFinish(fn func())
	// OnReady registers fn to run once the facility has fixed its real start
	// time.
	OnReady(fn func())
}

// Seeker is implemented by playbacks whose start time can be moved so that
// they continue from the given elapsed time.
type Seeker interface {
	Seek(elapsed time.Duration)
}

// batchRunner serves position and velocity from the pre-simulated trajectory
// while the facility plays it back.
type batchRunner struct {
	t        *ticker.Ticker
	traj     Trajectory
	frames   []Keyframe
	facility Facility
	playback Playback

	start  time.Time
	active bool
	// frozen holds the state reported once the run is no longer active.
	frozenPos, frozenVel float64
	onComplete           func()
}

func startBatch(t *ticker.Ticker, opts Options) *batchRunner {
	traj := Simulate(opts.Integrator, opts.From, opts.To, opts.Velocity, opts.MaxSamples)
	r := &batchRunner{
		t:          t,
		traj:       traj,
		frames:     traj.Keyframes(opts.Style),
		facility:   opts.Facility,
		active:     true,
		onComplete: opts.OnComplete,
	}
	observability.Runner().OnRunnerStart(ModeBatch, opts.From, opts.To)

	r.start = t.Now()
	r.playback = r.facility.Play(r.frames, traj.Duration())
	r.playback.OnReady(func() { t.Dispatch(r.reconcile) })

	call(opts.OnStart)

	r.playback.OnFinish(func() { t.Dispatch(r.finish) })
	return r
}

func (r *batchRunner) elapsed() time.Duration {
	return r.t.Now().Sub(r.start)
}

// reconcile re-anchors the elapsed origin to what the facility actually
// rendered. Failures are skipped: the visible animation is unaffected.
func (r *batchRunner) reconcile() {
	if !r.active {
		return
	}
	log := errors.Logger()

	raw, ok := r.facility.RenderedTransform()
	if !ok {
		log.Debug("drift reconciliation skipped", "reason", "no rendered transform")
		observability.Runner().OnReconcile(-1, ConfidenceNone.String(), false)
		return
	}
	p, ok := ParseTranslate(raw)
	if !ok {
		log.Debug("drift reconciliation skipped", "reason", "unparseable transform", "transform", raw)
		observability.Runner().OnReconcile(-1, ConfidenceNone.String(), false)
		return
	}
	poly := Polyline(r.frames, r.traj.Samples)
	if poly == nil {
		log.Debug("drift reconciliation skipped", "reason", "keyframes have no translation")
		observability.Runner().OnReconcile(-1, ConfidenceNone.String(), false)
		return
	}

	m := Reconcile(p, poly)
	observability.Runner().OnReconcile(m.Distance, m.Confidence.String(), m.OK)
	if !m.OK {
		log.Debug("drift reconciliation skipped", "reason", "no match", "distance", m.Distance)
		return
	}

	corrected := r.t.Now().Add(-m.Time)
	log.Debug("drift reconciled",
		"frame", m.Time, "confidence", m.Confidence, "shift", corrected.Sub(r.start))
	r.start = corrected
	if s, ok := r.playback.(Seeker); ok {
		s.Seek(m.Time)
	}
}

func (r *batchRunner) finish() {
	if !r.active {
		return
	}
	r.active = false
	last := r.traj.Samples[len(r.traj.Samples)-1]
	r.frozenPos, r.frozenVel = last.Position, 0
	observability.Runner().OnRunnerComplete(ModeBatch, r.elapsed())
	call(r.onComplete)
}

func (r *batchRunner) Stop() {
	if !r.active {
		return
	}
	r.frozenPos, r.frozenVel = r.traj.At(r.elapsed())
	r.active = false
	r.playback.Cancel()
}

func (r *batchRunner) Position() float64 {
	if !r.active {
		return r.frozenPos
	}
	p, _ := r.traj.At(r.elapsed())
	return p
}

func (r *batchRunner) Velocity() float64 {
	if !r.active {
		return r.frozenVel
	}
	_, v := r.traj.At(r.elapsed())
	return v
}

func (r *batchRunner) IsRunning() bool { return r.active }

// Trajectory returns the pre-simulated trajectory. Tests and tooling use it
// to inspect what was handed to the facility.
func (r *batchRunner) Trajectory() Trajectory { return r.traj }
