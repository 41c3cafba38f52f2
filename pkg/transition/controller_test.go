package transition

import (
	"context"
	stderrors "errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/transit/pkg/animation"
	"github.com/go-drift/transit/pkg/errors"
	"github.com/go-drift/transit/pkg/runner"
	transittest "github.com/go-drift/transit/pkg/testing"
)

type recorder struct {
	in, out  []float64
	cleanups int
	ends     []string
	prepared int
}

func (r *recorder) configs() Configs {
	return Configs{
		In: animation.SingleConfig{
			Tick: func(p float64) { r.in = append(r.in, p) },
			Hooks: animation.Hooks{
				Prepare: func() { r.prepared++ },
				OnEnd:   func() { r.ends = append(r.ends, "in") },
			},
		},
		Out: animation.SingleConfig{
			Tick:  func(p float64) { r.out = append(r.out, p) },
			Hooks: animation.Hooks{OnEnd: func() { r.ends = append(r.ends, "out") }},
		},
	}
}

func newController(t *testing.T, cfg Configs, r *recorder, opts ...Option) (*Controller, *transittest.FrameDriver) {
	t.Helper()
	d := transittest.NewFrameDriver()
	opts = append([]Option{WithTicker(d.Ticker()), WithCleanup(func() { r.cleanups++ })}, opts...)
	return NewController(cfg, opts...), d
}

func last(xs []float64) float64 {
	if len(xs) == 0 {
		return -1
	}
	return xs[len(xs)-1]
}

func TestControllerInThenOut(t *testing.T) {
	r := &recorder{}
	c, d := newController(t, r.configs(), r)
	ctx := context.Background()

	require.NoError(t, c.In(ctx))
	assert.Equal(t, StateRunningIn, c.State())
	assert.Equal(t, 1, r.prepared)
	require.NoError(t, d.RunUntilIdle(600))
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, 1.0, last(r.in))
	assert.Nil(t, c.Current())

	require.NoError(t, c.Out(ctx))
	assert.Equal(t, StateRunningOut, c.State())
	require.NoError(t, d.RunUntilIdle(600))

	assert.Equal(t, 0.0, last(r.out))
	assert.Equal(t, []string{"in", "out"}, r.ends)
	assert.Equal(t, 1, r.cleanups)
	assert.Equal(t, StateIdle, c.State())
	assert.NotEmpty(t, c.ID())
}

func TestControllerOutInterruptsIn(t *testing.T) {
	r := &recorder{}
	c, d := newController(t, r.configs(), r)
	ctx := context.Background()

	require.NoError(t, c.In(ctx))
	d.StepN(6)
	before := c.Current().Animator.Snapshot()
	require.Greater(t, before.Position, 0.0)
	require.Less(t, before.Position, 1.0)

	require.NoError(t, c.Out(ctx))
	assert.Equal(t, StateRunningOut, c.State())
	after := c.Current().Animator.Snapshot()
	assert.Equal(t, before.Position, after.Position)
	assert.Equal(t, before.Velocity, after.Velocity)

	require.NoError(t, d.RunUntilIdle(600))
	assert.Empty(t, r.out, "the exit config never runs")
	assert.Equal(t, 0.0, last(r.in))
	assert.Equal(t, 1, r.cleanups)
}

func TestControllerInInterruptsOut(t *testing.T) {
	r := &recorder{}
	c, d := newController(t, r.configs(), r)
	ctx := context.Background()

	require.NoError(t, c.Out(ctx))
	d.StepN(6)
	require.NoError(t, c.In(ctx))
	assert.Equal(t, StateRunningIn, c.State())
	require.NoError(t, d.RunUntilIdle(600))

	assert.Equal(t, 1.0, last(r.out), "the exit config plays backward to its start")
	assert.Empty(t, r.in)
	assert.Equal(t, 0, r.cleanups)
}

func TestControllerReversesMultiSpringInPlace(t *testing.T) {
	var a, b []float64
	cleanups := 0
	d := transittest.NewFrameDriver()
	c := NewController(Configs{
		In: animation.MultiConfig{Springs: []animation.SpringItem{
			{Tick: func(p float64) { a = append(a, p) }},
			{Tick: func(p float64) { b = append(b, p) }},
		}},
	}, WithTicker(d.Ticker()), WithCleanup(func() { cleanups++ }))
	ctx := context.Background()

	require.NoError(t, c.In(ctx))
	d.StepN(5)
	m := c.Current().Animator

	require.NoError(t, c.Out(ctx))
	assert.Same(t, m, c.Current().Animator)
	assert.Equal(t, Out, c.Current().Direction)

	require.NoError(t, d.RunUntilIdle(600))
	assert.Equal(t, 0.0, last(a))
	assert.Equal(t, 0.0, last(b))
	assert.Equal(t, 1, cleanups)
	assert.Equal(t, StateIdle, c.State())
}

func TestControllerPageStrategyStartsFresh(t *testing.T) {
	r := &recorder{}
	c, d := newController(t, r.configs(), r, WithStrategy(PageStrategy{}))
	ctx := context.Background()

	require.NoError(t, c.In(ctx))
	d.StepN(6)
	require.NoError(t, c.Out(ctx))
	d.Step()

	require.NotEmpty(t, r.out)
	assert.Less(t, r.out[0], 1.0)
	assert.Greater(t, r.out[0], 0.9, "exit starts from its own origin")
	require.NoError(t, d.RunUntilIdle(600))
	assert.Equal(t, []string{"out"}, r.ends)
}

func TestControllerWaitsBeforeStarting(t *testing.T) {
	release := make(chan struct{})
	var ticks []float64
	d := transittest.NewFrameDriver()
	c := NewController(Configs{In: animation.SingleConfig{
		Tick: func(p float64) { ticks = append(ticks, p) },
		Hooks: animation.Hooks{Wait: func(ctx context.Context) error {
			select {
			case <-release:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}},
	}}, WithTicker(d.Ticker()))

	require.NoError(t, c.In(context.Background()))
	assert.Equal(t, StateRunningIn, c.State())
	assert.Nil(t, c.Current())
	assert.False(t, d.Ticker().Active())

	close(release)
	require.Eventually(t, d.Ticker().Active, time.Second, time.Millisecond)
	require.NoError(t, d.RunUntilIdle(600))

	assert.Equal(t, 1.0, last(ticks))
	assert.Equal(t, StateIdle, c.State())
}

func TestControllerDropsSupersededWait(t *testing.T) {
	release := make(chan struct{})
	waited := make(chan error, 1)
	r := &recorder{}
	cfg := r.configs()
	in := cfg.In.(animation.SingleConfig)
	in.Wait = func(ctx context.Context) error {
		<-release
		waited <- ctx.Err()
		return nil
	}
	cfg.In = in
	c, d := newController(t, cfg, r)
	ctx := context.Background()

	require.NoError(t, c.In(ctx))
	require.NoError(t, c.Out(ctx))
	close(release)
	assert.ErrorIs(t, <-waited, context.Canceled)

	require.NoError(t, d.RunUntilIdle(600))
	assert.Empty(t, r.in, "the superseded enter never starts")
	assert.Equal(t, 0.0, last(r.out))
	assert.Equal(t, 1, r.cleanups)
}

func TestControllerRetriggerWaitingKeepsState(t *testing.T) {
	release := make(chan struct{})
	var waits atomic.Int32
	r := &recorder{}
	cfg := r.configs()
	out := cfg.Out.(animation.SingleConfig)
	out.Wait = func(ctx context.Context) error {
		if waits.Add(1) == 1 {
			return nil
		}
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	cfg.Out = out
	c, d := newController(t, cfg, r)
	ctx := context.Background()

	require.NoError(t, c.Out(ctx))
	require.Eventually(t, d.Ticker().Active, time.Second, time.Millisecond)
	d.StepN(4)

	require.NoError(t, c.Out(ctx))
	require.NoError(t, d.RunUntilIdle(600))

	assert.Equal(t, []string{"out"}, r.ends, "the first exit ran to its end")
	assert.Equal(t, StateRunningOut, c.State(), "the second exit is still pending")
	assert.Equal(t, 0, r.cleanups)

	close(release)
	require.Eventually(t, d.Ticker().Active, time.Second, time.Millisecond)
	require.NoError(t, d.RunUntilIdle(600))

	assert.Equal(t, []string{"out", "out"}, r.ends)
	assert.Equal(t, 1, r.cleanups)
	assert.Equal(t, StateIdle, c.State())
}

func TestControllerWaitErrorAbortsExit(t *testing.T) {
	r := &recorder{}
	cfg := r.configs()
	out := cfg.Out.(animation.SingleConfig)
	out.Wait = func(context.Context) error { return stderrors.New("gone") }
	cfg.Out = out
	c, d := newController(t, cfg, r)

	require.NoError(t, c.Out(context.Background()))
	require.Eventually(t, d.Ticker().Active, time.Second, time.Millisecond)
	d.Step()

	assert.Empty(t, r.out)
	assert.Equal(t, 1, r.cleanups, "an aborted exit still removes the element")
	assert.Equal(t, StateIdle, c.State())
}

func TestControllerExitWithoutConfigCleansUp(t *testing.T) {
	r := &recorder{}
	c, _ := newController(t, Configs{}, r)

	require.NoError(t, c.Out(context.Background()))
	assert.Equal(t, 1, r.cleanups)
	assert.Equal(t, StateIdle, c.State())
}

func TestControllerReturnsConfigErrors(t *testing.T) {
	r := &recorder{}
	c, d := newController(t, Configs{In: animation.SingleConfig{
		Tick:  func(float64) {},
		Style: func(float64) runner.Keyframe { return nil },
	}}, r)

	err := c.In(context.Background())
	assert.ErrorIs(t, err, errors.ErrConflictingModes)
	assert.True(t, errors.IsKind(err, errors.KindConfig))
	assert.Equal(t, StateIdle, c.State())
	assert.False(t, d.Ticker().Active())
}

func TestControllerStop(t *testing.T) {
	r := &recorder{}
	c, d := newController(t, r.configs(), r)

	require.NoError(t, c.In(context.Background()))
	d.StepN(3)
	c.Stop()
	n := len(r.in)
	d.StepN(10)

	assert.Len(t, r.in, n)
	assert.Empty(t, r.ends)
	assert.Equal(t, StateIdle, c.State())
	assert.False(t, d.Ticker().Active())
}
