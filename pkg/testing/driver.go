package testing

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-drift/transit/pkg/ticker"
)

// FrameInterval is the default virtual frame period (60 Hz).
const FrameInterval = time.Second / 60

// ErrIdleTimeout is returned when RunUntilIdle exceeds its budget.
var ErrIdleTimeout = errors.New("RunUntilIdle timed out: ticker still active")

// FrameDriver drives a ticker with virtual time. It acts as the ticker's
// pulse source, so Active reflects whether anything still wants frames.
type FrameDriver struct {
	clock    *FakeClock
	ticker   *ticker.Ticker
	interval time.Duration
	prev     *ticker.Ticker

	mu       sync.Mutex
	requests int
	cancels  int
	frame    int
}

// NewFrameDriver returns a driver with its own ticker. The ticker is not
// installed as the default; use [NewFrameDriverWithT] or [FrameDriver.Install].
func NewFrameDriver(opts ...ticker.Option) *FrameDriver {
	d := &FrameDriver{
		clock:    NewFakeClock(),
		interval: FrameInterval,
	}
	base := []ticker.Option{ticker.WithClock(d.clock), ticker.WithPulseSource(d)}
	d.ticker = ticker.New(append(base, opts...)...)
	return d
}

// NewFrameDriverWithT returns a driver installed as the default ticker and
// restored via t.Cleanup. This is the recommended constructor for tests.
func NewFrameDriverWithT(t testing.TB, opts ...ticker.Option) *FrameDriver {
	d := NewFrameDriver(opts...)
	d.Install()
	t.Cleanup(d.Uninstall)
	return d
}

// Install makes the driver's ticker the process default.
func (d *FrameDriver) Install() {
	d.prev = ticker.SetDefault(d.ticker)
}

// Uninstall restores the ticker that was the default before Install.
func (d *FrameDriver) Uninstall() {
	ticker.SetDefault(d.prev)
}

// Ticker returns the driven ticker.
func (d *FrameDriver) Ticker() *ticker.Ticker { return d.ticker }

// Clock returns the virtual clock.
func (d *FrameDriver) Clock() *FakeClock { return d.clock }

// SetInterval changes the virtual frame period.
func (d *FrameDriver) SetInterval(interval time.Duration) {
	d.interval = interval
}

// Request implements ticker.PulseSource.
func (d *FrameDriver) Request() {
	d.mu.Lock()
	d.requests++
	d.mu.Unlock()
}

// Cancel implements ticker.PulseSource.
func (d *FrameDriver) Cancel() {
	d.mu.Lock()
	d.cancels++
	d.mu.Unlock()
}

// Requests returns how many times the ticker asked for pulses.
func (d *FrameDriver) Requests() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.requests
}

// Frame returns the number of frames stepped so far.
func (d *FrameDriver) Frame() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frame
}

// Step advances virtual time by one interval and pulses the ticker.
func (d *FrameDriver) Step() {
	d.clock.Advance(d.interval)
	d.mu.Lock()
	d.frame++
	d.mu.Unlock()
	d.ticker.Pulse()
}

// StepN steps n frames.
func (d *FrameDriver) StepN(n int) {
	for range n {
		d.Step()
	}
}

// Advance steps frames until at least dur of virtual time has passed.
func (d *FrameDriver) Advance(dur time.Duration) {
	for elapsed := time.Duration(0); elapsed < dur; elapsed += d.interval {
		d.Step()
	}
}

// RunUntilIdle steps frames until the ticker no longer wants pulses or
// maxFrames is exceeded.
func (d *FrameDriver) RunUntilIdle(maxFrames int) error {
	for range maxFrames {
		if !d.ticker.Active() {
			return nil
		}
		d.Step()
	}
	if d.ticker.Active() {
		return ErrIdleTimeout
	}
	return nil
}
