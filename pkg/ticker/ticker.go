// Package ticker provides the shared frame clock that drives every live
// animation.
//
// A [Ticker] fans one platform frame pulse out to any number of subscribers.
// The host calls [Ticker.Pulse] once per frame from its UI goroutine; all
// subscriber callbacks run synchronously inside that call, in subscription
// order. Work produced on other goroutines re-enters through
// [Ticker.Dispatch] and runs at the start of the next pulse.
//
// # Basic Usage
//
//	t := ticker.New(ticker.WithPulseSource(vsync))
//	unsubscribe := t.Subscribe(func(dt, elapsed float64) {
//	    // advance physics by dt seconds
//	})
//	defer unsubscribe()
//
// Tests use a virtual clock; see pkg/testing.FrameDriver.
package ticker

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-drift/transit/pkg/errors"
)

// Callback receives the frame delta and the total elapsed time, both in
// seconds.
type Callback func(dt, elapsed float64)

// Clock provides time for the ticker.
type Clock interface {
	Now() time.Time
}

// SystemClock reads wall-clock time.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// PulseSource is the platform frame signal. The ticker calls Request when it
// starts needing pulses and Cancel when it no longer does. Both are called
// with the ticker's lock held and must not call back into the ticker.
type PulseSource interface {
	Request()
	Cancel()
}

type subscription struct {
	cb      Callback
	removed atomic.Bool
}

// Ticker is a reference-counted frame clock with a single pulse source.
// All methods are safe for concurrent use; callbacks run on the goroutine
// that calls Pulse.
type Ticker struct {
	mu    sync.Mutex
	tick  []*subscription
	post  []*subscription
	queue []func()

	clock Clock
	pulse PulseSource

	running bool
	start   time.Time
	last    time.Time
	elapsed float64
	next    float64 // ms since start before which pulses are throttled

	lagThreshold time.Duration
	adjustedLag  time.Duration
	maxDelta     time.Duration
	gap          float64 // ms
}

// Lag smoothing and throttling defaults.
const (
	DefaultLagThreshold = 500 * time.Millisecond
	DefaultAdjustedLag  = 33 * time.Millisecond
	DefaultMaxDelta     = 33 * time.Millisecond
	DefaultMaxFPS       = 240
)

// New returns a ticker. Without options it reads the system clock and uses a
// pulse source that does nothing; the host then polls [Ticker.Active].
func New(opts ...Option) *Ticker {
	t := &Ticker{
		clock:        SystemClock{},
		pulse:        nopPulse{},
		lagThreshold: DefaultLagThreshold,
		adjustedLag:  DefaultAdjustedLag,
		maxDelta:     DefaultMaxDelta,
		gap:          1000.0 / DefaultMaxFPS,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.start = t.clock.Now()
	t.last = t.start
	t.next = t.gap
	return t
}

// Subscribe registers cb for every pulse and returns a function that removes
// it. Removal is immediate: a callback removed during a pulse does not run
// again, even later in that pulse. A callback added by another subscriber
// first runs on the next pulse; one added by a dispatched function runs in
// the pulse that drained it.
func (t *Ticker) Subscribe(cb Callback) (unsubscribe func()) {
	return t.add(&t.tick, cb)
}

// SubscribePost registers cb to run after every Subscribe callback of the
// same pulse. Schedulers use it to observe the results of that pulse's steps.
func (t *Ticker) SubscribePost(cb Callback) (unsubscribe func()) {
	return t.add(&t.post, cb)
}

func (t *Ticker) add(list *[]*subscription, cb Callback) func() {
	if cb == nil {
		return func() {}
	}
	s := &subscription{cb: cb}
	t.mu.Lock()
	*list = append(*list, s)
	t.updatePulseLocked()
	t.mu.Unlock()

	return func() {
		if s.removed.Swap(true) {
			return
		}
		t.mu.Lock()
		*list = without(*list, s)
		t.updatePulseLocked()
		t.mu.Unlock()
	}
}

func without(list []*subscription, s *subscription) []*subscription {
	for i, v := range list {
		if v == s {
			out := make([]*subscription, 0, len(list)-1)
			out = append(out, list[:i]...)
			return append(out, list[i+1:]...)
		}
	}
	return list
}

// Dispatch schedules fn to run at the start of the next pulse. It is safe to
// call from any goroutine.
func (t *Ticker) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	t.mu.Lock()
	t.queue = append(t.queue, fn)
	t.updatePulseLocked()
	t.mu.Unlock()
}

// Pulse advances the clock by one frame. It drains the dispatch queue, then
// invokes tick subscribers followed by post subscribers.
func (t *Ticker) Pulse() {
	t.mu.Lock()
	queue := t.queue
	t.queue = nil
	t.mu.Unlock()
	for _, fn := range queue {
		call("ticker.Dispatch", fn)
	}

	now := t.clock.Now()

	t.mu.Lock()
	dt, elapsed, fire := t.advanceLocked(now)
	var tick, post []*subscription
	if fire {
		tick = t.tick
		post = t.post
	}
	t.mu.Unlock()

	// Unsubscribe replaces the slices rather than mutating them, so the
	// captured ones are stable.
	for _, s := range tick {
		if !s.removed.Load() {
			call("ticker.Pulse", func() { s.cb(dt, elapsed) })
		}
	}
	for _, s := range post {
		if !s.removed.Load() {
			call("ticker.Pulse", func() { s.cb(dt, elapsed) })
		}
	}

	t.mu.Lock()
	t.updatePulseLocked()
	t.mu.Unlock()
}

// advanceLocked applies lag smoothing and the FPS cap to the gap since the
// previous pulse.
func (t *Ticker) advanceLocked(now time.Time) (dt, elapsed float64, fire bool) {
	frame := now.Sub(t.last)
	switch {
	case frame > t.lagThreshold || frame < 0:
		// Backgrounded or clock went backwards: shift the origin so elapsed
		// time only moves by the adjusted lag.
		t.start = t.start.Add(frame - t.adjustedLag)
		frame = t.adjustedLag
	case frame > t.maxDelta:
		frame = t.maxDelta
	}
	t.last = now

	total := float64(now.Sub(t.start)) / float64(time.Millisecond)
	overlap := total - t.next
	if overlap <= 0 {
		return 0, t.elapsed, false
	}
	t.elapsed = total / 1000
	if overlap >= t.gap {
		// Behind schedule: allow the next pulse 4ms from now.
		t.next += overlap + 4
	} else {
		t.next += t.gap
	}
	return frame.Seconds(), t.elapsed, true
}

func (t *Ticker) updatePulseLocked() {
	want := len(t.tick) > 0 || len(t.post) > 0 || len(t.queue) > 0
	switch {
	case want && !t.running:
		t.running = true
		// Time spent idle is not animation time.
		t.last = t.clock.Now()
		t.pulse.Request()
	case !want && t.running:
		t.running = false
		t.pulse.Cancel()
	}
}

// Active reports whether the ticker currently wants pulses.
func (t *Ticker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Len returns the number of subscribers of both phases.
func (t *Ticker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.tick) + len(t.post)
}

// Elapsed returns the elapsed time, in seconds, reported by the last pulse.
func (t *Ticker) Elapsed() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsed
}

// Now returns the ticker's current time.
func (t *Ticker) Now() time.Time {
	return t.clock.Now()
}

func call(op string, fn func()) {
	defer errors.Recover(op)
	fn()
}

type nopPulse struct{}

func (nopPulse) Request() {}
func (nopPulse) Cancel()  {}
