// Package transition decides how an element's enter and exit animations start,
// including what happens when one interrupts the other.
//
// A [Strategy] turns a trigger into a [Setup]. The default strategy handles
// four cases:
//
//  1. Idle, enter: run the enter config from its start.
//  2. Idle, exit: run the exit config from its start.
//  3. Entering, exit: stop the enter animation and play it backward from
//     where it is, rather than jumping to the exit config.
//  4. Exiting, enter: stop the exit animation and play it backward from
//     where it is.
//
// A multi-spring animation is turned around in place in cases 3 and 4. The
// page strategy ignores whatever is running and always starts fresh.
//
// A [Controller] applies a strategy to one element.
package transition

import (
	"fmt"

	"github.com/go-drift/transit/pkg/animation"
)

// Direction is the kind of transition a trigger asks for.
type Direction int

const (
	// In is an enter transition.
	In Direction = iota
	// Out is an exit transition.
	Out
)

func (d Direction) String() string {
	switch d {
	case In:
		return "in"
	case Out:
		return "out"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// natural is the range a direction covers when its config names none.
func (d Direction) natural() animation.Range {
	if d == Out {
		return animation.Range{From: 1, To: 0}
	}
	return animation.Range{From: 0, To: 1}
}

// Configs holds the two halves of a transition. Either may be nil.
type Configs struct {
	In  animation.TransitionConfig
	Out animation.TransitionConfig
}

func (c Configs) get(d Direction) animation.TransitionConfig {
	if d == Out {
		return c.Out
	}
	return c.In
}

// Current is the animation a strategy may interrupt.
type Current struct {
	Animator  animation.Animator
	Direction Direction
}

// Setup describes the animation a trigger should start.
type Setup struct {
	// Config is nil when nothing new should start.
	Config animation.TransitionConfig
	// Range is the resolved range of Config.
	Range animation.Range
	// Position and Velocity seed the new animator.
	Position float64
	Velocity float64
	// Direction is StatusForward to run toward Range.To, StatusBackward to
	// run toward Range.From.
	Direction animation.Status
	// Reversed reports that the running animator was turned around in place.
	Reversed bool
}

// Strategy resolves enter and exit triggers. cur is nil when nothing is
// running.
type Strategy interface {
	RunIn(cur *Current, configs Configs) Setup
	RunOut(cur *Current, configs Configs) Setup
}

// DefaultStrategy reverses an interrupted animation instead of jumping to
// the other config.
type DefaultStrategy struct{}

// RunIn implements Strategy.
func (DefaultStrategy) RunIn(cur *Current, configs Configs) Setup {
	return interrupt(cur, configs, In)
}

// RunOut implements Strategy.
func (DefaultStrategy) RunOut(cur *Current, configs Configs) Setup {
	return interrupt(cur, configs, Out)
}

func interrupt(cur *Current, configs Configs, d Direction) Setup {
	if cur == nil || cur.Direction == d || cur.Animator == nil || !cur.Animator.IsAnimating() {
		return fresh(configs.get(d), d)
	}

	if multi, ok := cur.Animator.(interface{ Len() int }); ok && multi.Len() > 1 {
		cur.Animator.Reverse()
		return Setup{Reversed: true}
	}

	snap := cur.Animator.Snapshot()
	cur.Animator.Stop()

	other := configs.get(cur.Direction)
	if other == nil {
		return fresh(configs.get(d), d)
	}
	return Setup{
		Config:    other,
		Range:     resolve(other, cur.Direction),
		Position:  snap.Position,
		Velocity:  snap.Velocity,
		Direction: animation.StatusBackward,
	}
}

// PageStrategy starts every transition fresh, ignoring anything running.
type PageStrategy struct{}

// RunIn implements Strategy.
func (PageStrategy) RunIn(_ *Current, configs Configs) Setup {
	return fresh(configs.In, In)
}

// RunOut implements Strategy.
func (PageStrategy) RunOut(_ *Current, configs Configs) Setup {
	return fresh(configs.Out, Out)
}

func fresh(cfg animation.TransitionConfig, d Direction) Setup {
	r := resolve(cfg, d)
	return Setup{
		Config:    cfg,
		Range:     r,
		Position:  r.From,
		Direction: animation.StatusForward,
	}
}

func resolve(cfg animation.TransitionConfig, d Direction) animation.Range {
	var r *animation.Range
	switch c := cfg.(type) {
	case animation.SingleConfig:
		r = c.Range
	case *animation.SingleConfig:
		if c != nil {
			r = c.Range
		}
	case animation.MultiConfig:
		r = c.Range
	case *animation.MultiConfig:
		if c != nil {
			r = c.Range
		}
	}
	if r == nil {
		return d.natural()
	}
	return *r
}
