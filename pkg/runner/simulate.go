package runner

import (
	"sort"
	"time"

	"github.com/go-drift/transit/pkg/errors"
	"github.com/go-drift/transit/pkg/integrator"
	"github.com/go-drift/transit/pkg/observability"
)

// Batch sampling parameters.
const (
	SampleRate        = 60
	FrameTime         = time.Second / SampleRate
	DefaultMaxSamples = 600
)

// Sample is one simulated frame.
type Sample struct {
	Time     time.Duration
	Position float64
	Velocity float64
}

// Trajectory is a pre-simulated run sampled at SampleRate.
type Trajectory struct {
	Samples []Sample
	// Truncated is set when the integrator did not settle within the sample
	// cap. The last sample is then forced to the target.
	Truncated bool
}

func sampleTime(i int) time.Duration {
	return time.Duration(i) * time.Second / SampleRate
}

// Simulate runs in from `from` toward `to` at SampleRate until it has been
// settled for integrator.SettleDuration, then appends an exact-target sample.
// maxSamples <= 0 means DefaultMaxSamples.
func Simulate(in integrator.Integrator, from, to, velocity float64, maxSamples int) Trajectory {
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}
	const dt = 1.0 / SampleRate

	state := integrator.State{Position: from, Velocity: velocity}
	samples := make([]Sample, 0, 64)
	settle := 0.0

	for i := range maxSamples {
		samples = append(samples, Sample{Time: sampleTime(i), Position: state.Position, Velocity: state.Velocity})

		state = in.Step(state, to, dt)
		if !in.IsSettled(state, to) {
			settle = 0
			continue
		}
		settle += dt
		if settle >= integrator.SettleDuration {
			samples = append(samples, Sample{Time: sampleTime(i + 1), Position: to})
			observability.Runner().OnSimulate(len(samples), false)
			return Trajectory{Samples: samples}
		}
	}

	errors.Logger().Warn("trajectory truncated",
		"samples", maxSamples, "from", from, "to", to, "last", state.Position)
	samples = append(samples, Sample{Time: sampleTime(maxSamples), Position: to})
	observability.Runner().OnSimulate(len(samples), true)
	return Trajectory{Samples: samples, Truncated: true}
}

// Err returns a KindSimulation error when the trajectory was truncated.
func (tr Trajectory) Err() error {
	if !tr.Truncated {
		return nil
	}
	return &errors.MotionError{Op: "runner.Simulate", Kind: errors.KindSimulation, Err: errors.ErrTrajectoryTruncated}
}

// Duration is the time of the last sample.
func (tr Trajectory) Duration() time.Duration {
	if len(tr.Samples) == 0 {
		return 0
	}
	return tr.Samples[len(tr.Samples)-1].Time
}

// At returns the position and velocity at elapsed time, interpolating
// linearly between the bracketing samples.
func (tr Trajectory) At(elapsed time.Duration) (position, velocity float64) {
	n := len(tr.Samples)
	if n == 0 {
		return 0, 0
	}
	first, last := tr.Samples[0], tr.Samples[n-1]
	if elapsed <= 0 {
		return first.Position, first.Velocity
	}
	if elapsed >= last.Time {
		return last.Position, last.Velocity
	}

	hi := sort.Search(n, func(i int) bool { return tr.Samples[i].Time > elapsed })
	a, b := tr.Samples[hi-1], tr.Samples[hi]
	f := float64(elapsed-a.Time) / float64(b.Time-a.Time)
	return a.Position + (b.Position-a.Position)*f, a.Velocity + (b.Velocity-a.Velocity)*f
}

// Keyframes maps every sample position through style.
func (tr Trajectory) Keyframes(style StyleFunc) []Keyframe {
	out := make([]Keyframe, len(tr.Samples))
	for i, s := range tr.Samples {
		out[i] = style(s.Position)
	}
	return out
}
