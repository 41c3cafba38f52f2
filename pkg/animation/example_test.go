package animation_test

import (
	"fmt"

	"github.com/go-drift/transit/pkg/animation"
	"github.com/go-drift/transit/pkg/integrator"
	transittest "github.com/go-drift/transit/pkg/testing"
)

// This example shows how to run a single spring to completion.
func ExampleSingle() {
	frames := transittest.NewFrameDriver()

	var last float64
	s, err := animation.NewSingle(animation.Options{
		From:   0,
		To:     1,
		Spring: &integrator.SpringParams{Stiffness: 170, Damping: 26},
		Tick:   func(p float64) { last = p },
		Env:    animation.Env{Ticker: frames.Ticker()},
	})
	if err != nil {
		panic(err)
	}

	s.Forward()
	if err := frames.RunUntilIdle(600); err != nil {
		panic(err)
	}
	fmt.Println(s.Status(), last)
	// Output: completed 1
}

// This example shows how to listen for status changes.
func ExampleSingle_AddStatusListener() {
	frames := transittest.NewFrameDriver()

	s, _ := animation.NewSingle(animation.Options{
		To:   1,
		Tick: func(float64) {},
		Env:  animation.Env{Ticker: frames.Ticker()},
	})
	s.AddStatusListener(func(status animation.Status) {
		fmt.Println(status)
	})

	s.Forward()
	frames.StepN(3)
	s.Stop()
	// Output:
	// forward
	// stopped
}

// This example shows a staggered entrance where each item starts once the
// previous one is halfway there.
func ExampleMulti() {
	frames := transittest.NewFrameDriver()

	var order []string
	item := func(name string) animation.SpringItem {
		return animation.SpringItem{
			Tick:    func(float64) {},
			Offset:  0.5,
			OnStart: func() { order = append(order, name) },
		}
	}

	m, err := animation.NewMulti(animation.MultiConfig{
		Springs:  []animation.SpringItem{item("title"), item("body"), item("footer")},
		Schedule: animation.ScheduleChain,
		Hooks:    animation.Hooks{OnEnd: func() { fmt.Println("done", order) }},
	}, animation.Env{Ticker: frames.Ticker()})
	if err != nil {
		panic(err)
	}

	m.Forward()
	if err := frames.RunUntilIdle(1200); err != nil {
		panic(err)
	}
	// Output: done [title body footer]
}

// This example shows how to map animator position onto another range.
func ExampleTween() {
	size := animation.TweenFloat64(100, 200)
	fmt.Println(size.Evaluate(0), size.Evaluate(0.5), size.Evaluate(1))
	// Output: 100 150 200
}
