// Package animation drives physics-based transitions built from one or more
// springs.
//
// # Core Components
//
//   - [Single]: Runs one scalar between From and To with a spring, inertia, or
//     custom integrator. Starting a new run stops the previous one and carries
//     its position and velocity over, so reversals never jump.
//
//   - [Multi]: Runs several [SpringItem]s over a shared range. Items start in
//     order according to a [Schedule], each once its predecessor has covered
//     enough of the range.
//
//   - [TransitionConfig]: The declarative form of a transition. [Normalize]
//     validates either shape and turns it into a [MultiConfig].
//
//   - [Tween]: Maps an animator's position onto another value range or type.
//
// # Basic Usage
//
//	m, err := animation.New(animation.SingleConfig{
//	    Spring: &integrator.SpringParams{Stiffness: 170, Damping: 26},
//	    Tick:   func(p float64) { view.SetOpacity(p) },
//	}, animation.Env{})
//	if err != nil {
//	    return err
//	}
//	m.Forward()
//
// Animators are not safe for concurrent use. Call them from the goroutine
// that pulses the ticker, or hand work to it with [ticker.Ticker.Dispatch].
package animation
