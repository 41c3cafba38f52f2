package ticker

import "time"

// Option configures a Ticker.
type Option func(*Ticker)

// WithClock sets the time source.
func WithClock(c Clock) Option {
	return func(t *Ticker) {
		if c != nil {
			t.clock = c
		}
	}
}

// WithPulseSource sets the platform frame signal.
func WithPulseSource(p PulseSource) Option {
	return func(t *Ticker) {
		if p != nil {
			t.pulse = p
		}
	}
}

// WithLagSmoothing sets the gap beyond which a pulse is treated as a stall
// and the delta reported in its place. adjusted is capped at threshold.
func WithLagSmoothing(threshold, adjusted time.Duration) Option {
	return func(t *Ticker) {
		t.lagThreshold = threshold
		t.adjustedLag = min(adjusted, threshold)
	}
}

// WithMaxFPS caps how often subscribers run. Pulses arriving faster are
// dropped.
func WithMaxFPS(fps int) Option {
	return func(t *Ticker) {
		if fps > 0 {
			t.gap = 1000.0 / float64(fps)
		}
	}
}
