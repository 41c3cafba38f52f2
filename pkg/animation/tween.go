package animation

import (
	"fmt"

	"golang.org/x/image/math/f64"

	"github.com/go-drift/transit/pkg/runner"
)

// Tween interpolates between Begin and End values based on animator position.
//
// Tween maps the normalized position of an animator to any value range or
// type. Use [TweenFloat64] and [TweenVec2] for common types, or create custom
// tweens with a Lerp function.
type Tween[T any] struct {
	// Begin is the value at position 0.
	Begin T
	// End is the value at position 1.
	End T
	// Lerp interpolates between Begin and End. Positions outside [0, 1]
	// extrapolate, so spring overshoot stays visible.
	Lerp func(a, b T, t float64) T
}

// Evaluate returns the interpolated value at t.
func (tw *Tween[T]) Evaluate(t float64) T {
	if tw.Lerp == nil {
		return tw.End
	}
	return tw.Lerp(tw.Begin, tw.End, t)
}

// Transform returns the interpolated value at the animator's position.
func (tw *Tween[T]) Transform(a Animator) T {
	return tw.Evaluate(a.Snapshot().Position)
}

// LerpFloat64 linearly interpolates between two float64 values.
func LerpFloat64(a, b float64, t float64) float64 {
	return a + (b-a)*t
}

// LerpVec2 linearly interpolates between two points.
func LerpVec2(a, b f64.Vec2, t float64) f64.Vec2 {
	return f64.Vec2{LerpFloat64(a[0], b[0], t), LerpFloat64(a[1], b[1], t)}
}

// TweenFloat64 creates a tween for float64 values.
func TweenFloat64(begin, end float64) *Tween[float64] {
	return &Tween[float64]{Begin: begin, End: end, Lerp: LerpFloat64}
}

// TweenVec2 creates a tween for 2D offsets.
func TweenVec2(begin, end f64.Vec2) *Tween[f64.Vec2] {
	return &Tween[f64.Vec2]{Begin: begin, End: end, Lerp: LerpVec2}
}

// TranslateStyle returns a batch style that moves an element along tw.
// The keyframes it produces parse back with [runner.ParseTranslate].
func TranslateStyle(tw *Tween[f64.Vec2]) runner.StyleFunc {
	return func(p float64) runner.Keyframe {
		v := tw.Evaluate(p)
		return runner.Keyframe{"transform": fmt.Sprintf("translate(%gpx, %gpx)", v[0], v[1])}
	}
}

// OpacityStyle returns a batch style that fades an element along tw.
func OpacityStyle(tw *Tween[float64]) runner.StyleFunc {
	return func(p float64) runner.Keyframe {
		return runner.Keyframe{"opacity": fmt.Sprintf("%g", tw.Evaluate(p))}
	}
}
