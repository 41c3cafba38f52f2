// Package testing provides a virtual frame clock for deterministic animation
// tests.
//
// # Quick Start
//
// Install a driver, start an animation, and step frames:
//
//	func TestSlide(t *testing.T) {
//	    frames := transittest.NewFrameDriverWithT(t)
//	    ctl, _ := runner.Start(frames.Ticker(), runner.Options{...})
//
//	    frames.StepN(10)
//	    if err := frames.RunUntilIdle(600); err != nil {
//	        t.Fatal(err)
//	    }
//	}
//
// Each Step advances the fake clock by one interval (60 Hz by default) and
// pulses the ticker, which drains dispatched work and runs subscribers.
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import transittest "github.com/go-drift/transit/pkg/testing"
package testing
