package runner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/math/f64"
)

func TestParseTranslate(t *testing.T) {
	tests := []struct {
		in   string
		want f64.Vec2
		ok   bool
	}{
		{"matrix(1, 0, 0, 1, 12.5, -4)", f64.Vec2{12.5, -4}, true},
		{"matrix(0.5,0,0,0.5,10,20)", f64.Vec2{10, 20}, true},
		{"matrix3d(1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 30, 40, 0, 1)", f64.Vec2{30, 40}, true},
		{"translate3d(5px, 6px, 0px)", f64.Vec2{5, 6}, true},
		{"translate(7px, 8px)", f64.Vec2{7, 8}, true},
		{"translate(9px)", f64.Vec2{9, 0}, true},
		{"translateX(-3.5px)", f64.Vec2{-3.5, 0}, true},
		{"translateY(1e2px)", f64.Vec2{0, 100}, true},
		{"scale(2) translateX(10px)", f64.Vec2{10, 0}, true},
		{"none", f64.Vec2{}, false},
		{"", f64.Vec2{}, false},
		{"rotate(45deg)", f64.Vec2{}, false},
		{"translateX(calc(10px + 1em))", f64.Vec2{}, false},
		{"matrix3d(1, 0, 0)", f64.Vec2{}, false},
		{"matrix(a, 0, 0, 1, 2, 3)", f64.Vec2{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseTranslate(tt.in)
		assert.Equal(t, tt.ok, ok, "ParseTranslate(%q)", tt.in)
		if tt.ok {
			assert.InDelta(t, tt.want[0], got[0], 1e-12, "x of %q", tt.in)
			assert.InDelta(t, tt.want[1], got[1], 1e-12, "y of %q", tt.in)
		}
	}
}

func line() []Point {
	return []Point{
		{At: 0, Pos: f64.Vec2{0, 0}},
		{At: 100 * time.Millisecond, Pos: f64.Vec2{100, 0}},
		{At: 200 * time.Millisecond, Pos: f64.Vec2{100, 100}},
	}
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name string
		p    f64.Vec2
		time time.Duration
		conf Confidence
		ok   bool
	}{
		{"on first segment", f64.Vec2{50, 0.3}, 50 * time.Millisecond, ConfidenceHigh, true},
		{"near first segment", f64.Vec2{25, 3}, 25 * time.Millisecond, ConfidenceLow, true},
		{"on second segment", f64.Vec2{100, 40}, 140 * time.Millisecond, ConfidenceHigh, true},
		{"before start clamps to first vertex", f64.Vec2{-2, 0}, 0, ConfidenceLow, true},
		{"too far", f64.Vec2{50, 20}, 0, ConfidenceNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Reconcile(tt.p, line())
			assert.Equal(t, tt.ok, m.OK)
			assert.Equal(t, tt.conf, m.Confidence)
			if tt.ok {
				assert.InDelta(t, float64(tt.time), float64(m.Time), float64(time.Microsecond))
			}
		})
	}
}

func TestReconcileDegeneratePolylines(t *testing.T) {
	assert.False(t, Reconcile(f64.Vec2{0, 0}, nil).OK)

	m := Reconcile(f64.Vec2{0.2, 0}, []Point{{At: 30 * time.Millisecond}})
	assert.True(t, m.OK)
	assert.Equal(t, 30*time.Millisecond, m.Time)

	// Stationary segments do not divide by zero.
	m = Reconcile(f64.Vec2{0, 0}, []Point{{At: 0}, {At: 10 * time.Millisecond}})
	assert.True(t, m.OK)
	assert.Equal(t, time.Duration(0), m.Time)
}

func TestPolyline(t *testing.T) {
	samples := []Sample{{Time: 0}, {Time: 10}, {Time: 20}}

	poly := Polyline([]Keyframe{
		{"transform": "translateX(0px)"},
		{"opacity": "0.5"},
		{"transform": "translateX(10px)"},
	}, samples)
	assert.Equal(t, []Point{
		{At: 0, Pos: f64.Vec2{0, 0}},
		{At: 20, Pos: f64.Vec2{10, 0}},
	}, poly)

	assert.Nil(t, Polyline([]Keyframe{{"opacity": "1"}, {"transform": "translateX(1px)"}, {}}, samples))
	assert.Nil(t, Polyline(nil, nil))
}
