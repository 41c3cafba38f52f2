package runner

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/image/math/f64"
)

var (
	reMatrix      = regexp.MustCompile(`matrix\(\s*([^,]+),\s*([^,]+),\s*([^,]+),\s*([^,]+),\s*([^,]+),\s*([^,]+?)\s*\)`)
	reMatrix3D    = regexp.MustCompile(`matrix3d\(([^)]+)\)`)
	reTranslate3D = regexp.MustCompile(`translate3d\(\s*([^,]+),\s*([^,]+),\s*[^)]+\)`)
	reTranslate   = regexp.MustCompile(`translate\(\s*([^,)]+?)\s*(?:,\s*([^)]+?))?\s*\)`)
	reTranslateX  = regexp.MustCompile(`translateX\(\s*([^)]+?)\s*\)`)
	reTranslateY  = regexp.MustCompile(`translateY\(\s*([^)]+?)\s*\)`)
	reLeadingNum  = regexp.MustCompile(`^[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)
)

// ParseTranslate extracts the translation of a CSS transform value. It
// understands matrix, matrix3d, translate3d, translate, translateX and
// translateY; anything else, including "none", reports false.
func ParseTranslate(transform string) (f64.Vec2, bool) {
	transform = strings.TrimSpace(transform)
	if transform == "" || transform == "none" {
		return f64.Vec2{}, false
	}

	if m := reMatrix.FindStringSubmatch(transform); m != nil {
		for _, c := range m[1:5] {
			if _, ok := leadingFloat(c); !ok {
				return f64.Vec2{}, false
			}
		}
		// matrix(a, b, c, d, tx, ty)
		return pair(m[5], m[6])
	}

	if m := reMatrix3D.FindStringSubmatch(transform); m != nil {
		parts := strings.Split(m[1], ",")
		if len(parts) < 14 {
			return f64.Vec2{}, false
		}
		for _, c := range parts[:min(len(parts), 16)] {
			if _, ok := leadingFloat(c); !ok {
				return f64.Vec2{}, false
			}
		}
		// Column-major 4x4: the translation is elements 12 and 13.
		return pair(parts[12], parts[13])
	}

	if m := reTranslate3D.FindStringSubmatch(transform); m != nil {
		return pair(m[1], m[2])
	}
	if m := reTranslate.FindStringSubmatch(transform); m != nil {
		if m[2] == "" {
			return pair(m[1], "0")
		}
		return pair(m[1], m[2])
	}
	if m := reTranslateX.FindStringSubmatch(transform); m != nil {
		return pair(m[1], "0")
	}
	if m := reTranslateY.FindStringSubmatch(transform); m != nil {
		return pair("0", m[1])
	}
	return f64.Vec2{}, false
}

func pair(xs, ys string) (f64.Vec2, bool) {
	x, ok := leadingFloat(xs)
	if !ok {
		return f64.Vec2{}, false
	}
	y, ok := leadingFloat(ys)
	if !ok {
		return f64.Vec2{}, false
	}
	return f64.Vec2{x, y}, true
}

// leadingFloat parses the numeric prefix of a CSS length such as "12.5px".
func leadingFloat(s string) (float64, bool) {
	num := reLeadingNum.FindString(strings.TrimSpace(s))
	if num == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(num, 64)
	return f, err == nil
}
