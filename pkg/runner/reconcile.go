package runner

import (
	"math"
	"time"

	"golang.org/x/image/math/f64"
)

// Reconciliation tolerances, in pixels.
const (
	HighConfidenceDistance = 0.5
	MaxMatchDistance       = 10
)

// Confidence grades a reconciliation match.
type Confidence int

const (
	ConfidenceNone Confidence = iota
	ConfidenceLow
	ConfidenceHigh
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceLow:
		return "low"
	case ConfidenceHigh:
		return "high"
	default:
		return "none"
	}
}

// Point is a vertex of a trajectory polyline.
type Point struct {
	At  time.Duration
	Pos f64.Vec2
}

// Match is the result of locating a rendered point on a polyline.
type Match struct {
	Time       time.Duration
	Distance   float64
	Confidence Confidence
	OK         bool
}

// Reconcile finds the point on polyline nearest to p by projecting p onto
// every segment, and interpolates the time at that point. Matches farther
// than MaxMatchDistance are rejected. Ties go to the earliest segment.
func Reconcile(p f64.Vec2, polyline []Point) Match {
	if len(polyline) == 0 {
		return Match{Distance: math.Inf(1)}
	}

	best := Match{Distance: math.Inf(1)}
	if len(polyline) == 1 {
		best = Match{Time: polyline[0].At, Distance: dist(p, polyline[0].Pos)}
	}
	for i := 1; i < len(polyline); i++ {
		a, b := polyline[i-1], polyline[i]
		d := sub(b.Pos, a.Pos)
		t := 0.0
		if l2 := dot(d, d); l2 > 0 {
			t = math.Max(0, math.Min(1, dot(sub(p, a.Pos), d)/l2))
		}
		q := f64.Vec2{a.Pos[0] + t*d[0], a.Pos[1] + t*d[1]}
		if dd := dist(p, q); dd < best.Distance {
			best = Match{
				Time:     a.At + time.Duration(t*float64(b.At-a.At)),
				Distance: dd,
			}
		}
	}

	switch {
	case best.Distance > MaxMatchDistance || math.IsNaN(best.Distance):
		return Match{Distance: best.Distance}
	case best.Distance <= HighConfidenceDistance:
		best.Confidence = ConfidenceHigh
	default:
		best.Confidence = ConfidenceLow
	}
	best.OK = true
	return best
}

// Polyline builds the translate polyline of keyframes whose transform
// parses. It returns nil when the first keyframe has no parseable transform.
func Polyline(keyframes []Keyframe, samples []Sample) []Point {
	if len(keyframes) == 0 || len(keyframes) != len(samples) {
		return nil
	}
	if _, ok := ParseTranslate(keyframes[0]["transform"]); !ok {
		return nil
	}
	out := make([]Point, 0, len(keyframes))
	for i, kf := range keyframes {
		if v, ok := ParseTranslate(kf["transform"]); ok {
			out = append(out, Point{At: samples[i].Time, Pos: v})
		}
	}
	return out
}

func sub(a, b f64.Vec2) f64.Vec2 { return f64.Vec2{a[0] - b[0], a[1] - b[1]} }
func dot(a, b f64.Vec2) float64  { return a[0]*b[0] + a[1]*b[1] }
func dist(a, b f64.Vec2) float64 { return math.Hypot(a[0]-b[0], a[1]-b[1]) }
