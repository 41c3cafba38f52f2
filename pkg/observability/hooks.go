// Package observability provides hooks for metrics and tracing of the
// transition engine.
//
// Libraries call the registered hooks; applications register their own
// implementations once at startup. The defaults do nothing, so the engine
// carries no dependency on any metrics backend.
//
//	observability.SetRunnerHooks(&myRunnerHooks{})
//	observability.SetNavigationHooks(&myNavigationHooks{})
//
// Hooks are invoked synchronously, runner hooks from inside a frame pulse.
// Implementations must be cheap and must not block.
package observability

import (
	"context"
	"sync"
	"time"
)

// RunnerHooks receives events from animation runners.
type RunnerHooks interface {
	// OnRunnerStart records a runner starting in the given mode
	// ("live", "batch" or "empty").
	OnRunnerStart(mode string, from, to float64)

	// OnRunnerComplete records a runner reaching its target. Stopped runners
	// do not report completion.
	OnRunnerComplete(mode string, elapsed time.Duration)

	// OnSimulate records a batch pre-simulation.
	OnSimulate(samples int, truncated bool)

	// OnReconcile records a drift reconciliation attempt.
	OnReconcile(distance float64, confidence string, applied bool)
}

// NavigationHooks receives events from navigation detectors.
type NavigationHooks interface {
	// OnPairResolved records a resolved from/to pair.
	OnPairResolved(ctx context.Context, from, to string)

	// OnPairCancelled records a pending half that resolved to no pair.
	OnPairCancelled(ctx context.Context, key, kind string)
}

// NoopRunnerHooks is a no-op implementation of RunnerHooks.
type NoopRunnerHooks struct{}

func (NoopRunnerHooks) OnRunnerStart(string, float64, float64) {}
func (NoopRunnerHooks) OnRunnerComplete(string, time.Duration) {}
func (NoopRunnerHooks) OnSimulate(int, bool)                   {}
func (NoopRunnerHooks) OnReconcile(float64, string, bool)      {}

// NoopNavigationHooks is a no-op implementation of NavigationHooks.
type NoopNavigationHooks struct{}

func (NoopNavigationHooks) OnPairResolved(context.Context, string, string)  {}
func (NoopNavigationHooks) OnPairCancelled(context.Context, string, string) {}

var (
	runnerHooks     RunnerHooks     = NoopRunnerHooks{}
	navigationHooks NavigationHooks = NoopNavigationHooks{}
	hooksMu         sync.RWMutex
)

// SetRunnerHooks registers custom runner hooks. Nil is ignored.
func SetRunnerHooks(h RunnerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		runnerHooks = h
	}
}

// SetNavigationHooks registers custom navigation hooks. Nil is ignored.
func SetNavigationHooks(h NavigationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		navigationHooks = h
	}
}

// Runner returns the registered runner hooks.
func Runner() RunnerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return runnerHooks
}

// Navigation returns the registered navigation hooks.
func Navigation() NavigationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return navigationHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	runnerHooks = NoopRunnerHooks{}
	navigationHooks = NoopNavigationHooks{}
}
