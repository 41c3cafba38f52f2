package ticker

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/transit/pkg/errors"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type countingPulse struct {
	requests, cancels int
}

func (p *countingPulse) Request() { p.requests++ }
func (p *countingPulse) Cancel()  { p.cancels++ }

const frame = time.Second / 60

func newTestTicker(opts ...Option) (*Ticker, *fakeClock, *countingPulse) {
	clk := newFakeClock()
	p := &countingPulse{}
	t := New(append([]Option{WithClock(clk), WithPulseSource(p)}, opts...)...)
	return t, clk, p
}

func TestSinglePulseSourceForManySubscribers(t *testing.T) {
	tk, _, p := newTestTicker()

	u1 := tk.Subscribe(func(dt, elapsed float64) {})
	u2 := tk.Subscribe(func(dt, elapsed float64) {})
	u3 := tk.SubscribePost(func(dt, elapsed float64) {})
	assert.Equal(t, 1, p.requests)
	assert.Equal(t, 3, tk.Len())
	assert.True(t, tk.Active())

	u1()
	u2()
	assert.Equal(t, 0, p.cancels)
	u3()
	assert.Equal(t, 1, p.cancels)
	assert.False(t, tk.Active())

	// Double unsubscribe is harmless.
	u3()
	assert.Equal(t, 1, p.cancels)
}

func TestSubscribersRunInOrderThenPost(t *testing.T) {
	tk, clk, _ := newTestTicker()

	var order []string
	tk.SubscribePost(func(dt, elapsed float64) { order = append(order, "post") })
	tk.Subscribe(func(dt, elapsed float64) { order = append(order, "a") })
	tk.Subscribe(func(dt, elapsed float64) { order = append(order, "b") })

	clk.Advance(frame)
	tk.Pulse()

	assert.Equal(t, []string{"a", "b", "post"}, order)
}

func TestDeltaTime(t *testing.T) {
	tk, clk, _ := newTestTicker()

	var dts []float64
	tk.Subscribe(func(dt, elapsed float64) { dts = append(dts, dt) })

	clk.Advance(frame)
	tk.Pulse()
	clk.Advance(100 * time.Millisecond)
	tk.Pulse()
	clk.Advance(2 * time.Second)
	tk.Pulse()

	require.Len(t, dts, 3)
	assert.InDelta(t, frame.Seconds(), dts[0], 1e-9)
	assert.InDelta(t, 0.033, dts[1], 1e-9, "clamped")
	assert.InDelta(t, 0.033, dts[2], 1e-9, "lag adjusted")
}

func TestLagSmoothingShiftsElapsedOrigin(t *testing.T) {
	tk, clk, _ := newTestTicker()

	var last float64
	tk.Subscribe(func(dt, elapsed float64) { last = elapsed })

	clk.Advance(frame)
	tk.Pulse()
	before := last

	clk.Advance(10 * time.Second)
	tk.Pulse()

	assert.InDelta(t, before+0.033, last, 1e-9)
	assert.InDelta(t, last, tk.Elapsed(), 1e-12)
}

func TestMaxFPSDropsFastPulses(t *testing.T) {
	tk, clk, _ := newTestTicker(WithMaxFPS(30))

	calls := 0
	tk.Subscribe(func(dt, elapsed float64) { calls++ })

	for range 60 {
		clk.Advance(time.Second / 120)
		tk.Pulse()
	}
	// Half a second at a 30 fps cap.
	assert.GreaterOrEqual(t, calls, 12)
	assert.LessOrEqual(t, calls, 16)
}

func TestUnsubscribeDuringPulse(t *testing.T) {
	tk, clk, _ := newTestTicker()

	var unsubB func()
	bCalls := 0
	tk.Subscribe(func(dt, elapsed float64) { unsubB() })
	unsubB = tk.Subscribe(func(dt, elapsed float64) { bCalls++ })

	clk.Advance(frame)
	tk.Pulse()
	assert.Equal(t, 0, bCalls, "removed earlier in the same pulse")
}

func TestSubscribeDuringPulseRunsNextPulse(t *testing.T) {
	tk, clk, _ := newTestTicker()

	added := 0
	once := false
	tk.Subscribe(func(dt, elapsed float64) {
		if !once {
			once = true
			tk.Subscribe(func(dt, elapsed float64) { added++ })
		}
	})

	clk.Advance(frame)
	tk.Pulse()
	assert.Equal(t, 0, added)

	clk.Advance(frame)
	tk.Pulse()
	assert.Equal(t, 1, added)
}

func TestDispatchRunsAtStartOfPulse(t *testing.T) {
	tk, clk, p := newTestTicker()

	var order []string
	tk.Subscribe(func(dt, elapsed float64) { order = append(order, "tick") })

	done := make(chan struct{})
	go func() {
		tk.Dispatch(func() { order = append(order, "dispatch") })
		close(done)
	}()
	<-done

	clk.Advance(frame)
	tk.Pulse()
	assert.Equal(t, []string{"dispatch", "tick"}, order)
	assert.Equal(t, 1, p.requests)
}

func TestDispatchRequestsPulseWhenIdle(t *testing.T) {
	tk, _, p := newTestTicker()

	ran := false
	tk.Dispatch(func() { ran = true })
	assert.True(t, tk.Active())
	assert.Equal(t, 1, p.requests)

	tk.Pulse()
	assert.True(t, ran)
	assert.False(t, tk.Active())
	assert.Equal(t, 1, p.cancels)
}

func TestPanickingSubscriberIsReported(t *testing.T) {
	tk, clk, _ := newTestTicker()

	var reported *errors.PanicError
	errors.SetHandler(&panicRecorder{fn: func(p *errors.PanicError) { reported = p }})
	defer errors.SetHandler(nil)

	after := false
	tk.Subscribe(func(dt, elapsed float64) { panic("bad frame") })
	tk.Subscribe(func(dt, elapsed float64) { after = true })

	clk.Advance(frame)
	tk.Pulse()

	require.NotNil(t, reported)
	assert.Equal(t, "bad frame", reported.Value)
	assert.True(t, after, "later subscribers still run")
}

func TestIdleTimeNotReportedAsDelta(t *testing.T) {
	tk, clk, _ := newTestTicker()

	clk.Advance(200 * time.Millisecond)

	var dt0 float64
	tk.Subscribe(func(dt, elapsed float64) { dt0 = dt })
	clk.Advance(10 * time.Millisecond)
	tk.Pulse()

	assert.InDelta(t, 0.010, dt0, 1e-9)
}

func TestDefault(t *testing.T) {
	prev := SetDefault(nil)
	defer SetDefault(prev)

	d := Default()
	require.NotNil(t, d)
	assert.Same(t, d, Default())

	custom := New()
	SetDefault(custom)
	assert.Same(t, custom, Default())
}

type panicRecorder struct {
	fn func(*errors.PanicError)
}

func (r *panicRecorder) HandleError(*errors.MotionError) {}
func (r *panicRecorder) HandlePanic(p *errors.PanicError) { r.fn(p) }
