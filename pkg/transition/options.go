package transition

import (
	"github.com/go-drift/transit/pkg/runner"
	"github.com/go-drift/transit/pkg/ticker"
)

// Option configures a [Controller].
type Option func(*Controller)

// WithStrategy replaces the default interrupt-and-reverse strategy.
func WithStrategy(s Strategy) Option {
	return func(c *Controller) {
		if s != nil {
			c.strategy = s
		}
	}
}

// WithTicker drives the controller's animations from t instead of the
// default ticker.
func WithTicker(t *ticker.Ticker) Option {
	return func(c *Controller) {
		c.env.Ticker = t
	}
}

// WithFacility sets the batch playback facility for style-mode springs.
func WithFacility(f runner.Facility) Option {
	return func(c *Controller) {
		c.env.Facility = f
	}
}

// WithCleanup registers fn to run when an exit transition finishes, or when
// an exit trigger has nothing to animate. Adapters use it to remove the
// element.
func WithCleanup(fn func()) Option {
	return func(c *Controller) {
		c.cleanup = fn
	}
}
